package bloom

import (
	"time"

	"github.com/relistan/shorten"
)

// Defaults used by the link shortener.
const (
	DefaultBaseSize       = 100_000
	DefaultResizeInterval = 10 * time.Second
	DefaultMaxLength      = 5
	DefaultTargetFPP      = 0.01
	DefaultTriggerFPP     = 0.1
)

// Config holds the construction parameters of an expanding Filter.
type Config struct {
	// BaseSize is the capacity of the first segment.
	BaseSize uint64

	// ResizeInterval is how often the Maintainer checks for growth.
	ResizeInterval time.Duration

	// MaxLength caps the number of live segments. When a resize would
	// exceed it, the oldest segment is evicted.
	MaxLength int

	// TargetFPP is the false positive probability every segment is sized for.
	TargetFPP float64

	// TriggerFPP is the estimated false positive probability of the newest
	// segment above which the filter grows.
	TriggerFPP float64
}

// DefaultConfig returns the configuration used by the shortener service.
func DefaultConfig() Config {
	return Config{
		BaseSize:       DefaultBaseSize,
		ResizeInterval: DefaultResizeInterval,
		MaxLength:      DefaultMaxLength,
		TargetFPP:      DefaultTargetFPP,
		TriggerFPP:     DefaultTriggerFPP,
	}
}

// Validate returns an error if the config contains invalid fields.
func (c Config) Validate() error {
	if c.BaseSize == 0 {
		return shorten.Errorf(shorten.EINVALID, "filter base size must be positive")
	}
	if c.ResizeInterval <= 0 {
		return shorten.Errorf(shorten.EINVALID, "filter resize interval must be positive, got %s", c.ResizeInterval)
	}
	if c.MaxLength < 1 {
		return shorten.Errorf(shorten.EINVALID, "filter max length must be at least 1, got %d", c.MaxLength)
	}
	if !(c.TargetFPP > 0 && c.TargetFPP < 1) {
		return shorten.Errorf(shorten.EINVALID, "filter target fpp must be in (0, 1), got %v", c.TargetFPP)
	}
	if !(c.TriggerFPP > 0 && c.TriggerFPP < 1) {
		return shorten.Errorf(shorten.EINVALID, "filter trigger fpp must be in (0, 1), got %v", c.TriggerFPP)
	}
	if c.TriggerFPP <= c.TargetFPP {
		return shorten.Errorf(shorten.EINVALID, "filter trigger fpp %v must exceed target fpp %v", c.TriggerFPP, c.TargetFPP)
	}
	return nil
}
