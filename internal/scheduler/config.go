package scheduler

import "time"

// Config defines the sweeper configuration.
type Config struct {
	// Interval is the sweep period.
	Interval time.Duration `yaml:"interval"`
}

// DefaultConfig returns the default sweeper configuration.
func DefaultConfig() *Config {
	return &Config{
		Interval: time.Second,
	}
}

// interval returns the sweep period, falling back to one second.
func (c *Config) interval() time.Duration {
	if c == nil || c.Interval <= 0 {
		return time.Second
	}
	return c.Interval
}
