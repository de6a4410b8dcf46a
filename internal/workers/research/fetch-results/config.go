// internal/workers/research/fetch-results/config.go
package fetchresults

import "research-router/internal/workers/research"

const DefaultNumResults = 5

type Config struct {
	Profile    research.Profile
	APIKey     string
	NumResults int
}

func LoadConfig(profile research.Profile, apiKey string, numResults int) *Config {
	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	return &Config{
		Profile:    profile,
		APIKey:     apiKey,
		NumResults: numResults,
	}
}
