package nosline

// config holds settings shared by Serializer and Processor.
type config struct {
	maxTokens int
}

func defaultConfig() config {
	return config{maxTokens: DefaultMaxTokensPerLevel}
}

// Option configures a Serializer or Processor.
type Option func(*config)

// WithMaxTokensPerLevel bounds how many tokens a single level may yield before
// deserialization fails with ErrTokenLimit. Zero disables the bound.
func WithMaxTokensPerLevel(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.maxTokens = n
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
