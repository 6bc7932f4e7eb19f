package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	searchPath     = "/api/v1/search"
	requestTimeout = 15 * time.Second
)

// ErrNoResults means the document held no recognizable song records.
var ErrNoResults = errors.New("search: no results")

// ErrDurationOutOfRange means the selected song falls outside the
// configured length bounds.
var ErrDurationOutOfRange = errors.New("search: song duration out of allowed range")

// Client queries the player's local search endpoint.
type Client struct {
	baseURL    string
	bounds     Bounds
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds a search client for the player at host (host:port).
func NewClient(host string, bounds Bounds, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL:    "http://" + host,
		bounds:     bounds,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log.With("component", "search.client"),
	}
}

// Search posts the query and returns the raw result document.
func (c *Client) Search(ctx context.Context, query string) (*Document, error) {
	payload, err := json.Marshal(map[string]string{"query": strings.TrimSpace(query)})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &doc, nil
}

// FindSong searches and selects one record: an exact video-ID match when
// the query itself is an ID, otherwise the first extracted record. The
// selected song must pass the duration bounds.
func (c *Client) FindSong(ctx context.Context, query string) (Song, error) {
	doc, err := c.Search(ctx, query)
	if err != nil {
		return Song{}, err
	}

	return Select(doc, query, c.bounds)
}

// Select applies the selection and duration rules to an already-fetched
// document.
func Select(doc *Document, query string, bounds Bounds) (Song, error) {
	var first *Song
	for song := range Results(doc) {
		if song.VideoID == query {
			if !bounds.withinBounds(song.Duration) {
				return Song{}, ErrDurationOutOfRange
			}
			return song, nil
		}
		if first == nil {
			song := song
			first = &song
		}
	}

	if first == nil {
		return Song{}, ErrNoResults
	}
	if !bounds.withinBounds(first.Duration) {
		return Song{}, ErrDurationOutOfRange
	}

	return *first, nil
}
