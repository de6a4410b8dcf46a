// internal/workers/research/summarize-results/config.go
package summarizeresults

import "research-router/internal/workers/research"

type Config struct {
	Profile research.Profile
	// FallbackSummary replaces a blank model reply. A summarize step never
	// writes an empty response, so aggregation only reports "No response
	// found." when the supervisor finishes without summarizing.
	FallbackSummary string
}

func LoadConfig(profile research.Profile) *Config {
	return &Config{
		Profile:         profile,
		FallbackSummary: "I don't have enough information to answer that question.",
	}
}
