// internal/workers/research/supervise-research/models.go
package superviseresearch

import "research-router/internal/workflow"

type Input struct {
	Question    string `json:"question"`
	FetchResult string `json:"fetchResult"`
	Response    string `json:"response"`
}

type Output struct {
	// Next is the worker label chosen by the model.
	Next     string            `json:"next"`
	Decision workflow.Decision `json:"decision"`
}
