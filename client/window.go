package client

import "sync"

const (
	// DefaultWindowSize is how many items each LoadMore reveals.
	DefaultWindowSize = 5
	// DefaultScrollThreshold is the distance in px from the bottom that triggers a load.
	DefaultScrollThreshold = 1000
)

// Window reveals a growing prefix of an already fetched slice, n items at a time.
type Window[T any] struct {
	mu        sync.Mutex
	source    []T
	size      int
	end       int
	loading   bool
	threshold int

	// beforeAppend runs while a load is in flight.
	beforeAppend func()
}

// NewWindow shows the first size items of source. size <= 0 uses DefaultWindowSize.
func NewWindow[T any](source []T, size int) *Window[T] {
	if size <= 0 {
		size = DefaultWindowSize
	}
	w := &Window[T]{size: size, threshold: DefaultScrollThreshold}
	w.Reset(source)
	return w
}

// Reset starts over on a new source.
func (w *Window[T]) Reset(source []T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = source
	w.end = min(w.size, len(source))
	w.loading = false
}

// SetThreshold changes the scroll distance that triggers a load.
func (w *Window[T]) SetThreshold(px int) {
	w.mu.Lock()
	w.threshold = max(px, 0)
	w.mu.Unlock()
}

// Visible returns the revealed prefix.
func (w *Window[T]) Visible() []T {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]T, w.end)
	copy(out, w.source[:w.end])
	return out
}

// HasMore reports whether part of the source is still hidden.
func (w *Window[T]) HasMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.end < len(w.source)
}

// Loading reports whether a LoadMore is in flight.
func (w *Window[T]) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// LoadMore reveals the next size items. It returns false without doing
// anything while another load is in flight or when nothing is left.
func (w *Window[T]) LoadMore() bool {
	w.mu.Lock()
	if w.loading || w.end >= len(w.source) {
		w.mu.Unlock()
		return false
	}
	w.loading = true
	w.mu.Unlock()

	if w.beforeAppend != nil {
		w.beforeAppend()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.end = min(w.end+w.size, len(w.source))
	w.loading = false
	return true
}

// ShouldLoad reports whether the viewport bottom is within the threshold of the document end.
func (w *Window[T]) ShouldLoad(scrollTop, viewportHeight, documentHeight int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return viewportHeight+scrollTop >= documentHeight-w.threshold
}

// OnScroll loads the next page when the scroll position calls for it.
func (w *Window[T]) OnScroll(scrollTop, viewportHeight, documentHeight int) bool {
	if !w.ShouldLoad(scrollTop, viewportHeight, documentHeight) {
		return false
	}
	return w.LoadMore()
}
