package market

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "DealEvaluationPlatform research@dealevaluation.local"

// CompsParser extracts comparable sales from listing pages. Sources
// publish comps as plain HTML tables; the parser keys columns off the
// header row so column order can vary between sources.
type CompsParser struct {
	client *http.Client
}

// NewCompsParser returns a parser with a sane request timeout.
func NewCompsParser() *CompsParser {
	return &CompsParser{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchComparables downloads a listing page and parses its comp tables.
func (p *CompsParser) FetchComparables(url string) ([]Comparable, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comps page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("comps page returned status %d", res.StatusCode)
	}

	html, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read comps page: %w", err)
	}

	return p.ParseComparables(string(html))
}

// ParseComparables extracts every comp row from the document's tables.
func (p *CompsParser) ParseComparables(html string) ([]Comparable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse comps HTML: %w", err)
	}

	var comps []Comparable
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		columns := headerColumns(table)
		if _, ok := columns["property"]; !ok {
			// Not a comp table.
			return
		}

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			cells := row.Find("td")
			if cells.Length() == 0 {
				return
			}

			cell := func(name string) string {
				idx, ok := columns[name]
				if !ok || idx >= cells.Length() {
					return ""
				}
				return strings.TrimSpace(cells.Eq(idx).Text())
			}

			comp := Comparable{
				Property:      cell("property"),
				DistanceMiles: parseNumber(cell("distance")),
				Units:         int(parseNumber(cell("units"))),
				SalePrice:     parseNumber(cell("sale price")),
				PricePerSF:    parseNumber(cell("price/sf")),
				CapRate:       parseRate(cell("cap rate")),
			}
			if date, err := time.Parse("2006-01-02", cell("sale date")); err == nil {
				comp.SaleDate = date
			}

			if comp.Property != "" && comp.SalePrice > 0 {
				comps = append(comps, comp)
			}
		})
	})

	if len(comps) == 0 {
		return nil, fmt.Errorf("no comparable rows found")
	}
	return comps, nil
}

// headerColumns maps normalized header names to their column index.
func headerColumns(table *goquery.Selection) map[string]int {
	columns := map[string]int{}
	table.Find("tr").First().Find("td, th").Each(func(i int, cell *goquery.Selection) {
		name := strings.ToLower(strings.TrimSpace(cell.Text()))
		if name != "" {
			columns[name] = i
		}
	})
	return columns
}

// parseNumber strips currency/unit decoration ("$2,800,000", "0.3 miles")
// and parses the leading numeric value.
func parseNumber(raw string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(raw)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return v
}

// parseRate reads a percentage cell ("6.2%") into a fraction.
func parseRate(raw string) float64 {
	return parseNumber(raw) / 100
}
