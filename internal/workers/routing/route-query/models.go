// internal/workers/routing/route-query/models.go
package routequery

import "research-router/internal/models"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Category models.Category `json:"category"`
	// Label is the raw next_agent value, empty when absent.
	Label    string `json:"label"`
	Fallback bool   `json:"fallback"`
}
