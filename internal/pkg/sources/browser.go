package sources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/Vodeneev/statjoin/internal/pkg/stats"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// One headless Chrome at a time; each render uses its own profile dir.
var chromeMu sync.Mutex

// BrowserClient renders JavaScript-built stats pages in headless Chrome
// and extracts the table from the resulting DOM.
type BrowserClient struct {
	selector string
	wait     time.Duration
	timeout  time.Duration
}

func NewBrowserClient(selector string, wait, timeout time.Duration) *BrowserClient {
	if strings.TrimSpace(selector) == "" {
		selector = "table"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserClient{selector: selector, wait: wait, timeout: timeout}
}

func (c *BrowserClient) FetchTable(ctx context.Context, url string) (stats.Table, error) {
	html, err := c.Render(ctx, url)
	if err != nil {
		return stats.Table{}, err
	}
	return stats.ReadHTML(strings.NewReader(html), c.selector)
}

// Render navigates to url, waits for the table selector and returns the page HTML.
func (c *BrowserClient) Render(ctx context.Context, url string) (string, error) {
	chromeMu.Lock()
	defer chromeMu.Unlock()

	chromeDir, err := os.MkdirTemp("", "statjoin_chrome_")
	if err != nil {
		return "", fmt.Errorf("create chrome temp dir: %w", err)
	}
	defer os.RemoveAll(chromeDir)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
	}))
	defer cancel()

	var html string
	err = chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(c.selector, chromedp.ByQuery),
		chromedp.Sleep(c.wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp render %s: %w", url, err)
	}
	slog.Debug("Rendered stats page", "url", url, "bytes", len(html))
	return html, nil
}
