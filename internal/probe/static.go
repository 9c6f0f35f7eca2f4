package probe

import (
	"context"
	"path/filepath"
	"sync"

	"footage/internal/manifest"
)

// Static returns fixed metadata per file. Fixtures are matched by full path
// first, then by basename; anything else gets the degraded record.
type Static struct {
	mu       sync.Mutex
	fixtures map[string]manifest.Metadata
	calls    map[string]int
}

// NewStatic returns a Static prober seeded with fixtures.
func NewStatic(fixtures map[string]manifest.Metadata) *Static {
	s := &Static{fixtures: make(map[string]manifest.Metadata), calls: make(map[string]int)}
	for key, meta := range fixtures {
		s.fixtures[key] = meta
	}
	return s
}

// Set adds or replaces a fixture.
func (s *Static) Set(key string, meta manifest.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[key] = meta
}

// Probe implements Prober.
func (s *Static) Probe(_ context.Context, path string) Result {
	s.mu.Lock()
	s.calls[path]++
	meta, ok := s.fixtures[path]
	if !ok {
		meta, ok = s.fixtures[filepath.Base(path)]
	}
	s.mu.Unlock()
	if !ok {
		return Degraded(path, nil)
	}
	return Result{Metadata: meta}
}

// Calls returns how many times path was probed.
func (s *Static) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls returns the number of probes served.
func (s *Static) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}
