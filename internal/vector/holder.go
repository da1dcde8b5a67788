package vector

import "sync/atomic"

// Holder publishes the current Store to readers while allowing the watcher
// to swap in a freshly loaded one. Each stored value is immutable; only the
// pointer changes.
type Holder struct {
	ptr atomic.Pointer[Store]
}

// NewHolder wraps an initial store, which may be nil (semantic search
// degraded until a file appears).
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.ptr.Store(s)
	return h
}

// Get returns the current store, or nil when none is loaded.
func (h *Holder) Get() *Store {
	return h.ptr.Load()
}

// Swap publishes a new store. In-flight scans keep the store they started
// with.
func (h *Holder) Swap(s *Store) {
	h.ptr.Store(s)
}
