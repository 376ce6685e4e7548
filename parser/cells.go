package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts table cell texts from HTML
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// CellTexts extracts the rendered text of every table cell in the HTML,
// in document order. Covers plain HTML tables and ARIA grid tables
// (some report pages render tables out of divs with grid roles).
func (p *Parser) CellTexts(htmlContent string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var cells []string
	doc.Find("td, th, [role='cell'], [role='gridcell']").Each(func(i int, s *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(s.Text()))
	})

	return cells, nil
}
