package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/exchangekit/excheck/pkg/catalog"
)

// ErrNoSupportedTable is returned when the supported-builds page yields no
// usable rows. Callers treat any error from [FetchSupported] as non-fatal
// and fall back to the age heuristic.
var ErrNoSupportedTable = errors.New("no supported-builds table found")

// FetchSupported scrapes the supported-builds page and returns the
// authoritative mapping from product branch name (e.g. "Exchange Server
// 2019") to its currently supported CU labels.
func FetchSupported(ctx context.Context, pageURL string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	supported := make(map[string][]string)
	var scrapeErr error

	c := colly.NewCollector(colly.AllowedDomains(u.Hostname()))
	c.UserAgent = "excheck/1.0 (+https://github.com/exchangekit/excheck)"

	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("fetch %s: %w", r.Request.URL, err)
	})

	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		var cells []string
		e.ForEach("td", func(_ int, td *colly.HTMLElement) {
			cells = append(cells, strings.TrimSpace(td.Text))
		})
		if len(cells) < 2 {
			return
		}
		labels := catalog.CULabels(cells[1])
		if len(labels) == 0 {
			return
		}
		name := cells[0]
		supported[name] = append(supported[name], labels...)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, err
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if len(supported) == 0 {
		return nil, ErrNoSupportedTable
	}
	return supported, nil
}
