// Package search queries SerpAPI for web and scholarly results.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"research-router/internal/common/config"
	apperrors "research-router/internal/common/errors"
	apphttp "research-router/internal/common/http"
	"research-router/internal/common/logger"
)

type Engine string

const (
	EngineWeb     Engine = "web"
	EngineScholar Engine = "scholar"
)

const provider = "serpapi"

var (
	ErrMissingAPIKey = errors.New("search api key not set")
	ErrInvalidAPIKey = errors.New("search api key rejected")
)

var serpEngines = map[Engine]string{
	EngineWeb:     "google",
	EngineScholar: "google_scholar",
}

type Request struct {
	Query      string
	Engine     Engine
	APIKey     string
	NumResults int
}

type Record struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Searcher is the search collaborator used by the fetch step.
type Searcher interface {
	Search(ctx context.Context, req Request) ([]Record, error)
}

type serpResponse struct {
	OrganicResults []Record `json:"organic_results"`
	Error          string   `json:"error"`
}

type Client struct {
	baseURL string
	http    *apphttp.Client
	log     logger.Logger
}

func NewClient(cfg config.SearchConfig, log logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultSearchBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    apphttp.NewClient(config.GetDuration(cfg.Timeout)),
		log:     log,
	}
}

// NewClientWithHTTP is used by tests to point the client at an httptest server.
func NewClientWithHTTP(baseURL string, hc *http.Client, log logger.Logger) *Client {
	return &Client{baseURL: baseURL, http: apphttp.NewClientWith(hc), log: log}
}

// Search returns at most req.NumResults records. Provider "no results"
// replies yield an empty slice and no error.
func (c *Client) Search(ctx context.Context, req Request) ([]Record, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, fmt.Errorf("%w: %w", ErrMissingAPIKey, apperrors.NewMissingCredentialError(provider))
	}
	engine, ok := serpEngines[req.Engine]
	if !ok {
		return nil, apperrors.NewSearchFailedError(req.Query, fmt.Errorf("unsupported engine %q", req.Engine))
	}

	params := url.Values{}
	params.Set("engine", engine)
	params.Set("q", req.Query)
	params.Set("api_key", req.APIKey)
	if req.NumResults > 0 {
		params.Set("num", strconv.Itoa(req.NumResults))
	}

	c.log.Debug("Calling search provider", map[string]interface{}{
		"engine": engine,
		"query":  req.Query,
		"num":    req.NumResults,
	})

	var body serpResponse
	status, err := c.http.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &body)
	if isAuthFailure(status, body.Error) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAPIKey,
			apperrors.NewInvalidCredentialError(provider, fmt.Sprintf("status: %d", status)))
	}
	if err != nil {
		return nil, apperrors.NewSearchFailedError(req.Query, err).
			WithMetadata("engine", engine).
			WithMetadata("status", status)
	}
	if isNoResults(body.Error) {
		return []Record{}, nil
	}
	if status != http.StatusOK || body.Error != "" {
		return nil, apperrors.NewSearchFailedError(req.Query,
			fmt.Errorf("status %d: %s", status, body.Error)).
			WithMetadata("engine", engine).
			WithMetadata("status", status)
	}

	records := body.OrganicResults
	if req.NumResults > 0 && len(records) > req.NumResults {
		records = records[:req.NumResults]
	}
	c.log.Debug("Search provider returned results", map[string]interface{}{
		"engine": engine,
		"count":  len(records),
	})
	return records, nil
}

func isAuthFailure(status int, msg string) bool {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return true
	}
	return strings.Contains(strings.ToLower(msg), "invalid api key")
}

func isNoResults(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "hasn't returned any results")
}
