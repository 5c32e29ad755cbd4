package client

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestWindowInitialState(t *testing.T) {
	w := NewWindow(seq(12), 5)
	assert.Equal(t, seq(5), w.Visible())
	assert.True(t, w.HasMore())
	assert.False(t, w.Loading())

	small := NewWindow(seq(3), 5)
	assert.Equal(t, seq(3), small.Visible())
	assert.False(t, small.HasMore())

	empty := NewWindow[int](nil, 0)
	assert.Empty(t, empty.Visible())
	assert.False(t, empty.LoadMore())
}

func TestWindowLoadsEveryPageOnceThenStops(t *testing.T) {
	for _, n := range []int{1, 3, 5, 7, 12, 20} {
		w := NewWindow(seq(12), n)
		loads := 0
		for w.LoadMore() {
			loads++
			require.LessOrEqual(t, loads, 12, "LoadMore must terminate")
		}
		assert.Equal(t, seq(12), w.Visible(), "n=%d", n)
		assert.False(t, w.HasMore())
		assert.False(t, w.LoadMore())
	}
}

func TestWindowIgnoresTriggersWhileLoading(t *testing.T) {
	w := NewWindow(seq(20), 5)
	started := make(chan struct{})
	release := make(chan struct{})
	w.beforeAppend = func() {
		close(started)
		<-release
	}

	done := make(chan bool)
	go func() { done <- w.LoadMore() }()
	<-started

	assert.True(t, w.Loading())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.False(t, w.LoadMore())
		}()
	}
	wg.Wait()

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, seq(10), w.Visible())
	assert.False(t, w.Loading())
}

func TestWindowScrollThreshold(t *testing.T) {
	w := NewWindow(seq(20), 5)
	assert.False(t, w.ShouldLoad(999, 1000, 3000))
	assert.True(t, w.ShouldLoad(1000, 1000, 3000))

	assert.False(t, w.OnScroll(0, 800, 5000))
	assert.Len(t, w.Visible(), 5)
	assert.True(t, w.OnScroll(4000, 800, 5000))
	assert.Len(t, w.Visible(), 10)

	w.SetThreshold(0)
	assert.False(t, w.ShouldLoad(1000, 1000, 3000))
}

func TestWindowReset(t *testing.T) {
	w := NewWindow(seq(20), 5)
	w.LoadMore()
	w.Reset(seq(7))
	assert.Equal(t, seq(5), w.Visible())
	assert.True(t, w.HasMore())
}
