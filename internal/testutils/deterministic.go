// Package testutils provides deterministic generators and diff helpers for
// Axora Enigma tests. The generators keep production formats (UUID shape,
// millisecond timestamps) while making output reproducible.
package testutils

import (
	"fmt"
	"sync"
	"time"
)

// TestEpoch is the fixed reference instant shared by tests,
// 2025-01-01T00:00:00Z (1735689600000 Unix milliseconds).
var TestEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// FixedClock returns a clock function that always reports the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// SequentialIDs returns a generator producing deterministic IDs that keep
// UUID v4 format: 00000001-0000-4000-8000-000000000001, then
// 00000002-0000-4000-8000-000000000002, and so on.
func SequentialIDs() func() string {
	var mu sync.Mutex
	var counter uint64
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return fmt.Sprintf("%08x-0000-4000-8000-%012x", counter, counter)
	}
}
