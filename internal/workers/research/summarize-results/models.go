// internal/workers/research/summarize-results/models.go
package summarizeresults

type Input struct {
	FetchResult string `json:"fetchResult"`
}

type Output struct {
	Summary  string `json:"summary"`
	Fallback bool   `json:"fallback"`
}
