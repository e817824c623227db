package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPProvider fetches id lists from JSON endpoints (ranking pages,
// category and company lookups exposed through a catalog API). Results
// are cached per locator; a run with ForceRefresh bypasses the cache.
type HTTPProvider struct {
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string][]types.GameID
}

var _ interfaces.SourceProvider = &HTTPProvider{}

// HTTPOption is a functional option for HTTPProvider configuration
type HTTPOption func(*HTTPProvider)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		p.httpClient = c
	}
}

// NewHTTP creates a new HTTP-backed source provider
func NewHTTP(opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		cache:      make(map[string][]types.GameID),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// idPage is one page of a paginated id listing
type idPage struct {
	IDs  []string `json:"ids"`
	Next string   `json:"next"`
}

// Fetch retrieves all pages behind the locator URL. Pagination follows
// the "next" link until it is empty.
func (p *HTTPProvider) Fetch(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
	if !opts.ForceRefresh {
		if ids, ok := p.cached(locator); ok {
			if progress != nil {
				progress(fmt.Sprintf("%d ids (cached)", len(ids)))
			}
			return ids, nil
		}
	}

	var ids []types.GameID
	url := locator
	page := 0

	for url != "" {
		pageIDs, next, err := p.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}

		for _, id := range pageIDs {
			ids = append(ids, types.GameID(id))
		}
		page++

		if progress != nil {
			progress(fmt.Sprintf("page %d, %d ids", page, len(ids)))
		}

		url = next
	}

	p.store(locator, ids)
	return ids, nil
}

func (p *HTTPProvider) fetchPage(ctx context.Context, url string) ([]string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to build request", goerr.V("url", url))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to fetch page", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", goerr.New("unexpected status from source",
			goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	var page idPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", goerr.Wrap(err, "failed to decode page", goerr.V("url", url))
	}

	return page.IDs, page.Next, nil
}

func (p *HTTPProvider) cached(locator string) ([]types.GameID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids, ok := p.cache[locator]
	if !ok {
		return nil, false
	}
	copied := make([]types.GameID, len(ids))
	copy(copied, ids)
	return copied, true
}

func (p *HTTPProvider) store(locator string, ids []types.GameID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]types.GameID, len(ids))
	copy(copied, ids)
	p.cache[locator] = copied
}
