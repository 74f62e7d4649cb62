package coach

// Config holds advice generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Sessions is how many recent sessions are sent to the model.
	Sessions int
}

// DefaultConfig returns the settings used by `climbpoints coach`.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.4,
		Sessions:    5,
	}
}
