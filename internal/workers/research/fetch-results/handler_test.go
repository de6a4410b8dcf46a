// internal/workers/research/fetch-results/handler_test.go
package fetchresults

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/logger"
	"research-router/internal/common/metrics"
	"research-router/internal/common/search"
	"research-router/internal/models"
	"research-router/internal/workers/research"
)

// ==========================
// Test Helper Functions
// ==========================

type stubSearcher struct {
	records  []search.Record
	err      error
	requests []search.Request
}

func (s *stubSearcher) Search(ctx context.Context, req search.Request) ([]search.Record, error) {
	s.requests = append(s.requests, req)
	return s.records, s.err
}

func createTestConfig(t *testing.T, c models.Category, apiKey string) *Config {
	t.Helper()
	p, ok := research.ProfileFor(c)
	require.True(t, ok)
	return LoadConfig(p, apiKey, 5)
}

func sampleRecords(n int) []search.Record {
	records := make([]search.Record, n)
	for i := range records {
		records[i] = search.Record{
			Title:   fmt.Sprintf("Result %d", i+1),
			Snippet: fmt.Sprintf("Snippet %d", i+1),
			Link:    fmt.Sprintf("https://example.com/%d", i+1),
		}
	}
	return records
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RequestShape(t *testing.T) {
	tests := []struct {
		name       string
		category   models.Category
		wantQuery  string
		wantEngine search.Engine
	}{
		{name: "general", category: models.CategoryGeneral, wantQuery: "climate change impact on agriculture", wantEngine: search.EngineWeb},
		{name: "academic", category: models.CategoryAcademic, wantQuery: "climate change impact on agriculture", wantEngine: search.EngineScholar},
		{name: "product", category: models.CategoryProduct, wantQuery: "climate change impact on agriculture product trends", wantEngine: search.EngineWeb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{records: sampleRecords(2)}
			handler := NewHandler(createTestConfig(t, tt.category, "key"), searcher, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{Question: "climate change impact on agriculture"})

			require.NoError(t, err)
			require.Len(t, searcher.requests, 1)
			assert.Equal(t, tt.wantQuery, searcher.requests[0].Query)
			assert.Equal(t, tt.wantEngine, searcher.requests[0].Engine)
			assert.Equal(t, "key", searcher.requests[0].APIKey)
			assert.Equal(t, 5, searcher.requests[0].NumResults)
			assert.Equal(t, OutcomeResults, output.Outcome)
			assert.Equal(t, 2, output.RecordCount)
			assert.Contains(t, output.FetchResult, "**Result 1**")
		})
	}
}

func TestHandler_Execute_EmptyResultsUseSentinel(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		want     string
	}{
		{name: "general", category: models.CategoryGeneral, want: "No relevant results found."},
		{name: "academic", category: models.CategoryAcademic, want: "No academic results found."},
		{name: "product", category: models.CategoryProduct, want: "No product trend data found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(t, tt.category, "key"), &stubSearcher{records: []search.Record{}}, logger.NewTestLogger(t))

			text, err := handler.Fetch(context.Background(), "q")

			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.NotEmpty(t, text)
		})
	}
}

func TestHandler_Execute_CredentialProblemsDegrade(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantText    string
		wantOutcome string
	}{
		{
			name:        "missing key",
			err:         fmt.Errorf("%w: %w", search.ErrMissingAPIKey, apperrors.NewMissingCredentialError("serpapi")),
			wantText:    MissingKeySentinel,
			wantOutcome: OutcomeMissingCredential,
		},
		{
			name:        "rejected key",
			err:         fmt.Errorf("%w: %w", search.ErrInvalidAPIKey, apperrors.NewInvalidCredentialError("serpapi", "status: 401")),
			wantText:    InvalidKeySentinel,
			wantOutcome: OutcomeInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(t, models.CategoryGeneral, ""), &stubSearcher{err: tt.err}, logger.NewTestLogger(t))
			before := testutil.ToFloat64(metrics.FetchOutcomes.WithLabelValues("general", tt.wantOutcome))

			output, err := handler.Execute(context.Background(), &Input{Question: "q"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, output.FetchResult)
			assert.Equal(t, tt.wantOutcome, output.Outcome)
			assert.Equal(t, before+1, testutil.ToFloat64(metrics.FetchOutcomes.WithLabelValues("general", tt.wantOutcome)))
		})
	}
}

func TestHandler_Execute_SearchFailurePropagates(t *testing.T) {
	searchErr := apperrors.NewSearchFailedError("q", errors.New("status 500"))
	handler := NewHandler(createTestConfig(t, models.CategoryAcademic, "key"), &stubSearcher{err: searchErr}, logger.NewTestLogger(t))

	_, err := handler.Fetch(context.Background(), "q")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchFailed))
}

// ==========================
// Integration With The SerpAPI Client
// ==========================

func TestHandler_WithSerpAPIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_scholar", r.URL.Query().Get("engine"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[{"title":"LoRA","snippet":"Low-rank adaptation.","link":"https://arxiv.org/abs/2106.09685"}]}`))
	}))
	defer server.Close()

	client := search.NewClientWithHTTP(server.URL, server.Client(), logger.NewTestLogger(t))
	handler := NewHandler(createTestConfig(t, models.CategoryAcademic, "key"), client, logger.NewTestLogger(t))

	text, err := handler.Fetch(context.Background(), "GPT fine-tuning techniques")

	require.NoError(t, err)
	assert.Equal(t, "1. **LoRA**\nLow-rank adaptation.\n🔗 https://arxiv.org/abs/2106.09685\n", text)
}

func TestHandler_WithSerpAPIClient_MissingKey(t *testing.T) {
	client := search.NewClientWithHTTP("http://127.0.0.1:1", http.DefaultClient, logger.NewTestLogger(t))
	handler := NewHandler(createTestConfig(t, models.CategoryProduct, ""), client, logger.NewTestLogger(t))

	text, err := handler.Fetch(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, MissingKeySentinel, text)
}
