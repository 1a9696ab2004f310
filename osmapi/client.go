// Package osmapi downloads OpenStreetMap relations and decodes them into border segments.
package osmapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dustin/go-humanize"
	"github.com/paulmach/osm"
	"github.com/rotblauer/osmborders/types/border"
)

// ErrFetch is wrapped by every error downloading a relation.
var ErrFetch = errors.New("fetch relation")

const (
	DefaultBaseURL   = "https://api.openstreetmap.org/api/0.6"
	DefaultUserAgent = "osmborders/0.1 (+https://github.com/rotblauer/osmborders)"
	DefaultTimeout   = 2 * time.Minute
)

// Client fetches relations from the OSM API v0.6 relation/{id}/full.json endpoint.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client

	// Retries is the number of extra attempts after a failed request.
	// Client errors (4xx) are not retried.
	Retries uint

	// BackOff paces retries. Nil means exponential backoff.
	BackOff backoff.BackOff

	// Cache, if set, is consulted before each download and filled with
	// payloads that decode.
	Cache Cache

	logger *slog.Logger
}

func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		UserAgent:  DefaultUserAgent,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.With("osmapi", "client"),
	}
}

// WithLogger sets the logger and returns the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

func (c *Client) relationURL(id osm.RelationID) string {
	return fmt.Sprintf("%s/relation/%d/full.json", strings.TrimRight(c.BaseURL, "/"), id)
}

// cached returns the payload for id from the cache, if any.
func (c *Client) cached(id osm.RelationID) ([]byte, bool) {
	if c.Cache == nil {
		return nil, false
	}
	data, ok, err := c.Cache.Get(id)
	if err != nil {
		c.logger.Warn("Relation cache read failed", "relation", id, "error", err)
		return nil, false
	}
	if ok {
		c.logger.Debug("Relation cache hit", "relation", id, "size", humanize.Bytes(uint64(len(data))))
	}
	return data, ok
}

// Relation fetches relation id and decodes its member ways into segments.
// Only payloads that decode are cached. A cached payload that no longer
// decodes is evicted and downloaded again.
func (c *Client) Relation(ctx context.Context, id osm.RelationID) ([]border.Segment, error) {
	if data, ok := c.cached(id); ok {
		segments, err := DecodeRelation(id, data)
		if err == nil {
			return segments, nil
		}
		c.logger.Warn("Evicting undecodable cached relation", "relation", id, "error", err)
		if err := c.Cache.Delete(id); err != nil {
			c.logger.Warn("Relation cache delete failed", "relation", id, "error", err)
		}
	}

	data, err := c.download(ctx, id)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Parsing relation", "relation", id)
	segments, err := DecodeRelation(id, data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Parsed relation", "relation", id, "segments", len(segments))
	if c.Cache != nil {
		if err := c.Cache.Put(id, data); err != nil {
			c.logger.Warn("Relation cache write failed", "relation", id, "error", err)
		}
	}
	return segments, nil
}

func (c *Client) download(ctx context.Context, id osm.RelationID) ([]byte, error) {
	url := c.relationURL(id)
	c.logger.Info("Loading relation", "relation", id, "url", url)
	start := time.Now()

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		data, err := c.get(ctx, url)
		if err != nil && attempt <= int(c.Retries) {
			c.logger.Warn("Relation download failed", "relation", id, "attempt", attempt, "error", err)
		}
		return data, err
	}
	b := c.BackOff
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}
	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.Retries+1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrFetch, id, err)
	}
	c.logger.Info("Loaded relation", "relation", id,
		"size", humanize.Bytes(uint64(len(data))), "took", time.Since(start).Round(time.Millisecond))
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	return io.ReadAll(resp.Body)
}
