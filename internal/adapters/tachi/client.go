// Package tachi is the client for the remote score tracking service.
//
// Submissions are at-most-once: a failed import is reported to the caller
// and never retried or stored.
package tachi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/okian/takure/internal/domain/model"
	"github.com/okian/takure/pkg/logger"
)

// Endpoint paths relative to the base URL.
const (
	StatusPath = "/api/v1/status"
	ImportPath = "/ir/direct-manual/import"
)

const (
	defaultTimeout = 3 * time.Second
	responseLimit  = 1 << 20
)

// Client talks to one service instance with one API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	debug      bool
	logger     logger.Logger
}

// NewClient creates a client for baseURL. The base URL may be empty only
// in debug mode, where nothing is sent.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Get().Named("tachi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" && !c.debug {
		return nil, fmt.Errorf("%w: base url is required", ErrConfig)
	}
	return c, nil
}

// Debug reports whether the client only logs imports.
func (c *Client) Debug() bool { return c.debug }

// Status checks reachability and returns the id of the user owning the API key.
func (c *Client) Status(ctx context.Context) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+StatusPath, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build status request: %v", ErrRequest, err)
	}
	body, err := c.do(req)
	if err != nil {
		return 0, err
	}
	whoami := gjson.GetBytes(body, "body.whoami")
	if whoami.Type != gjson.Number {
		return 0, fmt.Errorf("%w: status has no user", ErrResponse)
	}
	return whoami.Uint(), nil
}

// Import validates and sends imp. In debug mode the payload is logged
// and nothing is sent.
func (c *Client) Import(ctx context.Context, imp model.Import) error {
	payload, err := imp.Marshal()
	if err != nil {
		return err
	}
	if err := Validate(payload); err != nil {
		return err
	}
	digest, err := Digest(payload)
	if err != nil {
		return err
	}
	log := c.logger.With(logger.String("import_digest", digest))

	if c.debug {
		log.Info(ctx, "debug mode, import not sent", logger.String("import", string(payload)))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ImportPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build import request: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req)
	if err != nil {
		return err
	}
	log.Debug(ctx, "import accepted",
		logger.String("description", gjson.GetBytes(body, "description").String()))
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequest, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrResponse, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "description").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s %s (status %d): %s", ErrRequest, req.Method, req.URL.Path, resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrResponse, req.URL.Path)
	}
	if ok := gjson.GetBytes(body, "success"); ok.Exists() && !ok.Bool() {
		return nil, fmt.Errorf("%w: %s: %s", ErrRequest, req.URL.Path, gjson.GetBytes(body, "description").String())
	}
	return body, nil
}
