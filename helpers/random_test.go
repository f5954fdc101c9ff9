package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitRangeDuration(t *testing.T) {
	r := WaitRange{Min: 100 * time.Millisecond, Max: 300 * time.Millisecond}

	for i := 0; i < 100; i++ {
		d := r.Duration()
		assert.GreaterOrEqual(t, d, r.Min)
		assert.Less(t, d, r.Max)
	}
}

func TestWaitRangeDurationDegenerate(t *testing.T) {
	assert.Equal(t, time.Duration(0), WaitRange{}.Duration())

	fixed := WaitRange{Min: time.Second, Max: time.Second}
	assert.Equal(t, time.Second, fixed.Duration())

	inverted := WaitRange{Min: 2 * time.Second, Max: time.Second}
	assert.Equal(t, 2*time.Second, inverted.Duration())
}

func TestSleepContextZeroDuration(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), 0))
}

func TestSleepContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SleepContext(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleepContextCompletes(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
}

func TestRandomSleeperHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RandomSleeper{}.Sleep(ctx, WaitRange{Min: time.Minute, Max: 2 * time.Minute})

	assert.ErrorIs(t, err, context.Canceled)
}
