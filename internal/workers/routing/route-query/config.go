// internal/workers/routing/route-query/config.go
package routequery

import "research-router/internal/models"

type Config struct {
	// FallbackCategory is used when the reply names no known category.
	FallbackCategory models.Category
}

func LoadConfig() *Config {
	return &Config{
		FallbackCategory: models.CategoryGeneric,
	}
}
