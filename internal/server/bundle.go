package server

import (
	"sync"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/service"
)

// BundleHolder hands the latest assembled dataset bundle to request
// handlers. Assembly runs in the background, so handlers must tolerate
// the bundle not being there yet.
type BundleHolder struct {
	mu     sync.RWMutex
	bundle *service.Bundle
}

// NewBundleHolder returns an empty holder.
func NewBundleHolder() *BundleHolder {
	return &BundleHolder{}
}

// Set publishes a freshly assembled bundle.
func (h *BundleHolder) Set(b *service.Bundle) {
	h.mu.Lock()
	h.bundle = b
	h.mu.Unlock()
}

// Get returns the current bundle, or false while assembly is still pending.
func (h *BundleHolder) Get() (*service.Bundle, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.bundle == nil {
		return nil, false
	}
	return h.bundle, true
}
