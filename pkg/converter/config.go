package converter

import "fmt"

// Defaults used when a setting is not given
const (
	DefaultResolution = 128
	DefaultTabSize    = 2
	DefaultBarLimit   = 0
)

// Config controls a conversion. It is passed by value and never changed once
// a Converter holds it.
type Config struct {
	Resolution int    // Slots per bar
	BarLimit   int    // Maximum number of bars per track, 0 for no limit
	Flat       bool   // Emit the literal slot sequence without compaction
	TabSize    int    // Spaces per indentation level in the output
	Sound      string // Sound for every track, empty to pick one per track
}

// DefaultConfig returns the configuration used by the CLI without flags
func DefaultConfig() Config {
	return Config{
		Resolution: DefaultResolution,
		BarLimit:   DefaultBarLimit,
		TabSize:    DefaultTabSize,
	}
}

// Validate checks the numeric settings
func (c Config) Validate() error {
	if c.Resolution < 1 {
		return fmt.Errorf("%w: resolution must be at least 1, got %d", ErrInvalidConfig, c.Resolution)
	}
	if c.BarLimit < 0 {
		return fmt.Errorf("%w: bar limit must not be negative, got %d", ErrInvalidConfig, c.BarLimit)
	}
	if c.TabSize < 0 {
		return fmt.Errorf("%w: tab size must not be negative, got %d", ErrInvalidConfig, c.TabSize)
	}
	return nil
}
