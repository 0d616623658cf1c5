package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTML extracts the first table matching selector ("table" when empty).
// Headers come from th cells, or from the first row's td cells when the table has no th.
func ReadHTML(r io.Reader, selector string) (Table, error) {
	if strings.TrimSpace(selector) == "" {
		selector = "table"
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse html: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return Table{}, fmt.Errorf("no element matches selector %q", selector)
	}

	var headers []string
	headerRow := -1
	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		ths := row.Find("th")
		if ths.Length() == 0 {
			return true
		}
		ths.Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, cellText(cell))
		})
		headerRow = i
		return false
	})

	rows := table.Find("tr")
	if headerRow < 0 {
		rows.First().Find("td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, cellText(cell))
		})
		headerRow = 0
	}

	t := Table{Columns: headers}
	rows.Each(func(i int, row *goquery.Selection) {
		if i <= headerRow {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		r := make(Row, len(headers))
		for _, h := range headers {
			r[h] = ""
		}
		cells.Each(func(j int, cell *goquery.Selection) {
			if j < len(headers) {
				r[headers[j]] = cellText(cell)
			}
		})
		t.Rows = append(t.Rows, r)
	})
	return t, nil
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
