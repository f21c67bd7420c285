package coros

// poolConfig holds the resolved configuration for NewPool, built up by
// applying each PoolOption in order over defaultPoolConfig().
type poolConfig struct {
	logger                 Logger
	metricsEnabled         bool
	dequeInitialCapacity   int
	intakeOverflowCapacity int
	rngSeed                func() uint64
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		logger:                 NoOpLogger{},
		metricsEnabled:         false,
		dequeInitialCapacity:   32,
		intakeOverflowCapacity: 1024,
		rngSeed:                defaultRNGSeed,
	}
}

// PoolOption configures a Pool at construction time, following the
// functional-options idiom used throughout this codebase.
type PoolOption func(*poolConfig)

// WithLogger directs the pool's scheduling events to l instead of
// discarding them.
func WithLogger(l Logger) PoolOption {
	if l == nil {
		panic("coros: WithLogger requires a non-nil Logger")
	}
	return func(c *poolConfig) { c.logger = l }
}

// WithMetrics enables or disables the pool's optional steal/latency
// counters (see metrics.go). Disabled by default.
func WithMetrics(enabled bool) PoolOption {
	return func(c *poolConfig) { c.metricsEnabled = enabled }
}

// WithDequeInitialCapacity sets each worker's Chase-Lev deque's starting
// capacity (rounded up to a power of two by the deque itself).
func WithDequeInitialCapacity(n int) PoolOption {
	if n <= 0 {
		panic("coros: WithDequeInitialCapacity requires n > 0")
	}
	return func(c *poolConfig) { c.dequeInitialCapacity = n }
}

// WithIntakeOverflowCapacity sets the initial capacity of the intake
// queue's mutex-protected overflow slice, used once the lock-free ring
// saturates.
func WithIntakeOverflowCapacity(n int) PoolOption {
	if n <= 0 {
		panic("coros: WithIntakeOverflowCapacity requires n > 0")
	}
	return func(c *poolConfig) { c.intakeOverflowCapacity = n }
}

// WithPRNGSeed overrides the seed function used to construct each
// worker's steal-order PRNG, for deterministic tests.
func WithPRNGSeed(seed func() uint64) PoolOption {
	if seed == nil {
		panic("coros: WithPRNGSeed requires a non-nil function")
	}
	return func(c *poolConfig) { c.rngSeed = seed }
}
