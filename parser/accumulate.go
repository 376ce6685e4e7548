package parser

import (
	"strings"

	"page-totals/models"
)

// AccumulateCells runs token extraction and normalization over every cell
// text and sums the values into a page tally. Tokens that fail to normalize
// are skipped silently; an empty input yields a zero subtotal. Never errors.
func AccumulateCells(cellTexts []string) models.PageTally {
	tally := models.PageTally{CellCount: len(cellTexts)}

	for _, cell := range cellTexts {
		for _, token := range ExtractTokens(cell) {
			tally.TokenCount++

			value, ok := Normalize(token)
			if !ok {
				continue
			}

			tally.ValidCount++
			tally.Subtotal += value
			tally.Values = append(tally.Values, models.TokenValue{
				Token: strings.TrimSpace(token),
				Value: value,
			})
		}
	}

	return tally
}
