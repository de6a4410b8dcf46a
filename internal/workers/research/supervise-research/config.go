// internal/workers/research/supervise-research/config.go
package superviseresearch

import "research-router/internal/workers/research"

type Config struct {
	Profile research.Profile
}

func LoadConfig(profile research.Profile) *Config {
	return &Config{
		Profile: profile,
	}
}
