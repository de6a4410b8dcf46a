// Package research holds the per-category settings shared by the supervisor,
// fetch and summarize workers.
package research

import (
	"fmt"
	"strings"

	"research-router/internal/common/search"
	"research-router/internal/models"
)

// FormatStyle selects how search records are rendered into fetch text.
type FormatStyle int

const (
	// StyleBullets renders one bullet block per record and skips records
	// without a snippet.
	StyleBullets FormatStyle = iota
	// StyleNumbered renders numbered blocks with placeholder title and
	// description.
	StyleNumbered
)

const FinishLabel = "FINISH"

type Profile struct {
	Category models.Category
	Name     string

	SupervisorPrompt string
	FetchWorker      string
	SummaryWorker    string

	// FetchField and ResponseField name the state fields in prompts and logs.
	FetchField    string
	ResponseField string

	Engine        search.Engine
	QuerySuffix   string
	EmptySentinel string
	Style         FormatStyle

	// SummaryTemplate is rendered with FetchField as its only input.
	SummaryTemplate string
}

// TransformQuery applies the category's search query rewrite.
func (p Profile) TransformQuery(question string) string {
	return question + p.QuerySuffix
}

// WorkerLabels lists the supervisor's allowed replies.
func (p Profile) WorkerLabels() []string {
	return []string{p.FetchWorker, p.SummaryWorker, FinishLabel}
}

// Format renders at most limit records. No usable records yields
// EmptySentinel, never "".
func (p Profile) Format(records []search.Record, limit int) string {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	var blocks []string
	switch p.Style {
	case StyleBullets:
		for _, r := range records {
			if r.Snippet == "" {
				continue
			}
			blocks = append(blocks, fmt.Sprintf("🔹 **%s**\n%s\n🔗 %s\n", r.Title, r.Snippet, r.Link))
		}
		if len(blocks) == 0 {
			return p.EmptySentinel
		}
		return strings.Join(blocks, "\n")
	default:
		for i, r := range records {
			blocks = append(blocks, fmt.Sprintf("%d. **%s**\n%s\n🔗 %s\n",
				i+1, orDefault(r.Title, "No title"), orDefault(r.Snippet, "No description"), r.Link))
		}
		if len(blocks) == 0 {
			return p.EmptySentinel
		}
		return strings.Join(blocks, "\n\n")
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var profiles = map[models.Category]Profile{
	models.CategoryGeneral: {
		Category: models.CategoryGeneral,
		Name:     "general",
		SupervisorPrompt: `You are a Supervisor Agent for a general research assistant.

Your job is to route a user's question to:
- 'web_search_agent': to simulate gathering search results.
- 'summary_agent': to summarize gathered results.

Process:
    - First call the 'web_search_agent' to get search results.
    - After getting the response from 'web_search_agent' as "SUCCESS", then call the 'summary_agent' to get final response.
    - Finally, If you got both the 'web_search_agent' response and final response, End the process and return as 'FINISH'.`,
		FetchWorker:   "web_search_agent",
		SummaryWorker: "summary_agent",
		FetchField:    "search_results",
		ResponseField: "subgraph1_response",
		Engine:        search.EngineWeb,
		EmptySentinel: "No relevant results found.",
		Style:         StyleBullets,
		SummaryTemplate: `You are an expert research assistant.

Your task is to read the following information gathered from various web search results, and generate a concise, informative, and easy-to-understand summary.
Focus on extracting key facts, themes, and insights.

Web Search Results:
--------------------
{{.search_results}}

Summary:`,
	},
	models.CategoryAcademic: {
		Category: models.CategoryAcademic,
		Name:     "academic",
		SupervisorPrompt: `You are a Supervisor Agent for an academic research assistant.

Your job is to route a user's  query to:
- 'academic_search_agent': to simulate gathering results from academic sources like journals, papers, and conference proceedings.
- 'research_summary_agent': to summarize and synthesize those academic results.

Process:
    - First call the 'academic_search_agent' to fetch academic data.
    - After getting the response from 'academic_search_agent' as "SUCCESS", then call the 'research_summary_agent' to get the final response.
    - Once both responses are collected, return 'FINISH'.`,
		FetchWorker:   "academic_search_agent",
		SummaryWorker: "research_summary_agent",
		FetchField:    "academic_results",
		ResponseField: "subgraph2_response",
		Engine:        search.EngineScholar,
		EmptySentinel: "No academic results found.",
		Style:         StyleNumbered,
		SummaryTemplate: `You are an expert academic assistant.

Your task is to read the following scholarly findings and research insights, and create a comprehensive, clear, and succinct summary suitable for a researcher or decision-maker.

Focus on key findings, methods, implications, and insights.

Academic Results:
-----------------
{{.academic_results}}

Summary:`,
	},
	models.CategoryProduct: {
		Category: models.CategoryProduct,
		Name:     "product",
		SupervisorPrompt: `You are a Supervisor Agent for a product/market research assistant.

Your job is to route a user's query to:
- 'market_trend_agent': to simulate gathering market and product trend insights.
- 'product_summary_agent': to summarize and interpret these insights.

Process:
    - First call the 'market_trend_agent' to get product or market data.
    - After getting the response from 'market_trend_agent' as "SUCCESS", then call the 'product_summary_agent' to get the final summary.
    - Once both responses are collected, return 'FINISH'.`,
		FetchWorker:   "market_trend_agent",
		SummaryWorker: "product_summary_agent",
		FetchField:    "trend_data",
		ResponseField: "subgraph3_response",
		Engine:        search.EngineWeb,
		QuerySuffix:   " product trends",
		EmptySentinel: "No product trend data found.",
		Style:         StyleNumbered,
		SummaryTemplate: `You are an expert product research analyst.

Your task is to analyze the following trend data gathered from various sources online and generate a clear, actionable summary of the product trends.

Focus on emerging patterns, popular products, customer interests, and potential opportunities.

Product Trend Data:
-------------------
{{.trend_data}}

Summary:`,
	},
}

// ProfileFor returns the profile of a research category.
func ProfileFor(c models.Category) (Profile, bool) {
	p, ok := profiles[c]
	return p, ok
}

// ResearchCategories lists the categories that have a profile.
func ResearchCategories() []models.Category {
	return []models.Category{models.CategoryGeneral, models.CategoryAcademic, models.CategoryProduct}
}
