package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// PageFetcher performs a single GET request
type PageFetcher interface {
	Fetch(ctx context.Context, url string, header http.Header) (*http.Response, error)
}

// HTTPPageFetcher is the net/http implementation of PageFetcher
type HTTPPageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a PageFetcher whose requests time out after timeout
func NewPageFetcher(timeout time.Duration) *HTTPPageFetcher {
	return &HTTPPageFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (pf *HTTPPageFetcher) Fetch(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := pf.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	return resp, nil
}
