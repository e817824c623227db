package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const defaultTimeout = 60 * time.Second

// Client talks to the external persistence bridge over HTTP. The
// bridge applies one batch of ids to the remote store and reports
// per-item outcomes.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

var _ interfaces.BatchPersister = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// New creates a bridge client for the given endpoint URL
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, goerr.New("bridge endpoint is required")
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type persistRequest struct {
	IDs []string `json:"ids"`
}

type persistResponse struct {
	OK   int `json:"ok"`
	Fail int `json:"fail"`
}

// PersistBatch submits one batch to the bridge. A transport or protocol
// error means the batch could not be attempted.
func (c *Client) PersistBatch(ctx context.Context, ids []types.GameID) (*interfaces.BatchResult, error) {
	reqBody := persistRequest{IDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		reqBody.IDs = append(reqBody.IDs, string(id))
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build bridge request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "bridge unavailable", goerr.V("endpoint", c.endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from bridge",
			goerr.V("endpoint", c.endpoint), goerr.V("status", resp.StatusCode))
	}

	var result persistResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode bridge response")
	}

	return &interfaces.BatchResult{OK: result.OK, Failed: result.Fail}, nil
}
