package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"substackscraper/helpers"
)

func TestScrollDriverConverges(t *testing.T) {
	sess := &fakeSession{heights: []int64{100, 200, 200}}
	sleeper := &instantSleeper{}
	driver := NewScrollDriver(50, helpers.WaitRange{}, sleeper)

	state, scrolls, err := driver.Run(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, StateConverged, state)
	assert.Equal(t, 2, scrolls)
	assert.Equal(t, 2, sleeper.calls)
}

func TestScrollDriverConvergesImmediately(t *testing.T) {
	sess := &fakeSession{heights: []int64{300, 300}}
	driver := NewScrollDriver(50, helpers.WaitRange{}, &instantSleeper{})

	state, scrolls, err := driver.Run(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, StateConverged, state)
	assert.Equal(t, 1, scrolls)
}

func TestScrollDriverExhausts(t *testing.T) {
	// Height grows on every probe, so the ceiling is the only way out
	heights := make([]int64, 10)
	for i := range heights {
		heights[i] = int64(100 * (i + 1))
	}
	sess := &fakeSession{heights: heights}
	driver := NewScrollDriver(3, helpers.WaitRange{}, &instantSleeper{})

	state, scrolls, err := driver.Run(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, StateExhausted, state)
	assert.Equal(t, 3, scrolls)
}

func TestScrollDriverPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := &fakeSession{heights: []int64{100, 200, 300}}
	driver := NewScrollDriver(50, helpers.WaitRange{}, &instantSleeper{})

	state, _, err := driver.Run(ctx, sess)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateScrolling, state)
}
