package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"renderdiff/internal/log"
)

// CrawlerUserAgent identifies the unscripted fetch as a well-known crawler,
// so the page serves whatever it would serve a search-engine bot.
const CrawlerUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

const fetchTimeout = 20 * time.Second

// StatusError reports a non-2xx response on the unscripted fetch.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

// RawHTML issues a single GET for targetURL with a crawler user agent,
// following redirects, and returns the response body as text. Non-2xx
// responses yield a *StatusError; transport failures are wrapped. Either
// failure is fatal to the analysis, there is no baseline without it.
func RawHTML(ctx context.Context, targetURL string) (string, error) {
	client := &http.Client{
		Timeout: fetchTimeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", CrawlerUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		log.Logger.Error("failed to fetch URL",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Logger.Warn("unexpected status code",
			zap.String("url", targetURL),
			zap.Int("status_code", resp.StatusCode),
		)
		return "", &StatusError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	log.Logger.Info("fetched raw HTML",
		zap.String("url", targetURL),
		zap.Int("content_length", len(body)),
		zap.Int("status_code", resp.StatusCode),
	)

	return string(body), nil
}
