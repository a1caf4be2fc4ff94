package service

import "sync"

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// Default returns the process-wide catalog, creating it on first use.
// Callers are expected to fetch it once at start-up and pass it along.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}
