package config

import "time"

type Limits struct {
	MaxConcurrentRuns int             `yaml:"max_concurrent_runs" validate:"required,min=1,max=100"`
	MaxPromptSize     int             `yaml:"max_prompt_size" validate:"required,min=1000,max=1000000"`
	TotalTimeout      Duration        `yaml:"total_timeout" validate:"required"`
	StageTimeouts     StageTimeouts   `yaml:"stage_timeouts"`
	RateLimit         RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type StageTimeouts struct {
	Analysis      Duration `yaml:"analysis"`
	Generation    Duration `yaml:"generation"`
	Review        Duration `yaml:"review"`
	Documentation Duration `yaml:"documentation"`
	Testing       Duration `yaml:"testing"`
	Deployment    Duration `yaml:"deployment"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxConcurrentRuns: 4,
		MaxPromptSize:     200000,
		TotalTimeout:      Duration(2 * time.Hour),
		StageTimeouts: StageTimeouts{
			Analysis:      Duration(2 * time.Minute),
			Generation:    Duration(5 * time.Minute),
			Review:        Duration(3 * time.Minute),
			Documentation: Duration(3 * time.Minute),
			Testing:       Duration(3 * time.Minute),
			Deployment:    Duration(2 * time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			BurstSize:         15,
		},
	}
}
