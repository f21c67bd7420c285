package coros

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPoolPanicsOnNonPositiveWorkerCount(t *testing.T) {
	assert.Panics(t, func() { NewPool(0) })
	assert.Panics(t, func() { NewPool(-1) })
}

func TestWithLoggerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { WithLogger(nil) })
}

func TestWithDequeInitialCapacityPanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { WithDequeInitialCapacity(0) })
}

func TestWithIntakeOverflowCapacityPanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { WithIntakeOverflowCapacity(-5) })
}

func TestWithPRNGSeedPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { WithPRNGSeed(nil) })
}

func TestWithPRNGSeedIsHonored(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(3, WithPRNGSeed(func() uint64 {
		calls.Add(1)
		return 12345
	}))
	defer pool.Shutdown()
	assert.Equal(t, 3, pool.Workers())
	assert.Equal(t, int32(3), calls.Load(), "the seed function seeds each worker's PRNG")
}
