// internal/workers/research/fetch-results/models.go
package fetchresults

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	FetchResult string `json:"fetchResult"`
	Outcome     string `json:"outcome"`
	RecordCount int    `json:"recordCount"`
}

const (
	OutcomeResults           = "results"
	OutcomeEmpty             = "empty"
	OutcomeMissingCredential = "missing_credential"
	OutcomeInvalidCredential = "invalid_credential"
)
