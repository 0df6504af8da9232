package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/needmomatcha/stockwatch/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

// maxPageBytes caps how much of a product page we read. The stock markers
// sit well inside the first megabyte.
const maxPageBytes = 2 << 20

var ErrUnrecognizedPage = errors.New("page has no recognizable stock marker")

// HTTPFetcher scrapes an Ippodo product page for its stock markers:
// an "oos-container" block means out of stock, a "product-stock-status"
// span saying "sold out" means out of stock, "add to bag" means in stock.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		Client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) FetchStock(ctx context.Context, variant domain.ProductVariant) (bool, error) {
	if f == nil || f.Client == nil {
		return false, errors.New("http fetcher is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, variant.URL, nil)
	if err != nil {
		return false, fmt.Errorf("build stock request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", variant.ID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("fetch %s: product page not found (404)", variant.ID)
	case resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("fetch %s: access denied (403)", variant.ID)
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("fetch %s: server error (%d)", variant.ID, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("fetch %s: unexpected status %d", variant.ID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return false, fmt.Errorf("read %s page: %w", variant.ID, err)
	}

	return parseStockPage(body, variant.ID)
}

func parseStockPage(body []byte, variantID string) (bool, error) {
	page := strings.ToLower(string(body))

	// Error pages sometimes come back with a 200.
	if title := pageTitle(page); title != "" {
		if strings.Contains(title, "404") || strings.Contains(title, "not found") {
			return false, fmt.Errorf("fetch %s: page title indicates an error page", variantID)
		}
	}

	if strings.Contains(page, `id="oos-container"`) || strings.Contains(page, "oos-container") {
		return false, nil
	}

	if idx := strings.Index(page, "product-stock-status"); idx >= 0 {
		window := page[idx:]
		if len(window) > 512 {
			window = window[:512]
		}
		if strings.Contains(window, "sold out") {
			return false, nil
		}
		if strings.Contains(window, "add to bag") {
			return true, nil
		}
		return false, fmt.Errorf("fetch %s: %w", variantID, ErrUnrecognizedPage)
	}

	return false, fmt.Errorf("fetch %s: %w", variantID, ErrUnrecognizedPage)
}

func pageTitle(page string) string {
	start := strings.Index(page, "<title>")
	if start < 0 {
		return ""
	}
	rest := page[start+len("<title>"):]
	end := strings.Index(rest, "</title>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
