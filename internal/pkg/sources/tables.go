package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Vodeneev/statjoin/internal/pkg/stats"
)

// TableSource fetches a raw stats table.
type TableSource interface {
	FetchTable(ctx context.Context, url string) (stats.Table, error)
}

// maxBodySize caps stats downloads; published sheets are far smaller.
const maxBodySize = 16 << 20

// SheetClient downloads CSV exports such as published Google Sheets.
type SheetClient struct {
	httpClient *http.Client
}

func NewSheetClient(timeout time.Duration) *SheetClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SheetClient{httpClient: &http.Client{Timeout: timeout}}
}

func (c *SheetClient) FetchTable(ctx context.Context, url string) (stats.Table, error) {
	body, err := get(ctx, c.httpClient, url, "text/csv")
	if err != nil {
		return stats.Table{}, err
	}
	return stats.ReadCSV(bytes.NewReader(body))
}

// HTMLClient downloads a page and extracts a stats table from it.
type HTMLClient struct {
	httpClient *http.Client
	selector   string
}

func NewHTMLClient(timeout time.Duration, selector string) *HTMLClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTMLClient{httpClient: &http.Client{Timeout: timeout}, selector: selector}
}

func (c *HTMLClient) FetchTable(ctx context.Context, url string) (stats.Table, error) {
	body, err := get(ctx, c.httpClient, url, "text/html")
	if err != nil {
		return stats.Table{}, err
	}
	return stats.ReadHTML(bytes.NewReader(body), c.selector)
}

func get(ctx context.Context, client *http.Client, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
