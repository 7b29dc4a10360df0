package vm

// Config carries the tunables spec.md leaves as host configuration: stack
// bounds and the default batch size for execute(maxInstructions). Only
// CallStackLimit is enforced; OperandStackLimit is stored but the operand
// stack grows without a bound check.
type Config struct {
	OperandStackLimit    int
	CallStackLimit       int
	DefaultBatchSize     int
	Logger               Logger
}

func defaultConfig() Config {
	return Config{
		OperandStackLimit: 1 << 16,
		CallStackLimit:    1024,
		DefaultBatchSize:  10_000,
		Logger:            NoopLogger,
	}
}

// Option configures a VM at construction time, mirroring the teacher's
// command-struct SetFlags style as a functional-options pattern.
type Option func(*Config)

func WithOperandStackLimit(n int) Option {
	return func(c *Config) { c.OperandStackLimit = n }
}

func WithCallStackLimit(n int) Option {
	return func(c *Config) { c.CallStackLimit = n }
}

func WithDefaultBatchSize(n int) Option {
	return func(c *Config) { c.DefaultBatchSize = n }
}

func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}
