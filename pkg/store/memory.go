package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/tscproj/pkg/analysis"
	"github.com/matzehuels/tscproj/pkg/errors"
)

// MemoryStore keeps reports in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]analysis.Report
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]analysis.Report)}
}

func (s *MemoryStore) SaveReport(_ context.Context, r *analysis.Report) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "report id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = *r
	return nil
}

func (s *MemoryStore) GetReport(_ context.Context, id string) (*analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found: %s", id)
	}
	return &r, nil
}

func (s *MemoryStore) ListReports(_ context.Context, q Query) ([]*analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*analysis.Report
	for _, r := range s.reports {
		if (q.Path == "" || r.Path == q.Path) && (q.Mode == "" || r.Mode == q.Mode) {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generated.After(out[j].Generated) })
	if int64(len(out)) > q.limit() {
		out = out[:q.limit()]
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
