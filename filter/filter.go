package filter

import (
	"page-totals/config"
	"page-totals/models"
)

// Filter applies the configured value range to parsed token values
type Filter struct {
	cfg config.ValueFilter
}

// NewFilter creates a new Filter instance
func NewFilter(cfg config.ValueFilter) *Filter {
	return &Filter{
		cfg: cfg,
	}
}

// Apply rebuilds a page tally keeping only values inside the configured
// range. When the filter is disabled the tally is returned unchanged, so
// the default behavior is to count everything.
func (f *Filter) Apply(tally models.PageTally) models.PageTally {
	if !f.cfg.Enabled {
		return tally
	}

	filtered := models.PageTally{
		CellCount:  tally.CellCount,
		TokenCount: tally.TokenCount,
	}

	for _, tv := range tally.Values {
		if !f.inRange(tv.Value) {
			continue
		}
		filtered.ValidCount++
		filtered.Subtotal += tv.Value
		filtered.Values = append(filtered.Values, tv)
	}

	return filtered
}

func (f *Filter) inRange(value float64) bool {
	if value < f.cfg.MinValue {
		return false
	}
	if f.cfg.MaxValue != 0 && value > f.cfg.MaxValue {
		return false
	}
	return true
}
