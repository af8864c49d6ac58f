package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// ErrNotFound is returned when no definition exists for an id.
var ErrNotFound = fmt.Errorf("report definition not found")

// Store owns the lifecycle of report definitions. IDs are unique;
// names are not. Implementations must hand out detached copies so an
// in-flight generation is never corrupted by a concurrent delete.
type Store interface {
	Create(ctx context.Context, def *domain.ReportDefinition) error
	Get(ctx context.Context, id string) (*domain.ReportDefinition, error)
	Update(ctx context.Context, def *domain.ReportDefinition) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.ReportDefinition, error)
	SetStatus(ctx context.Context, id string, status domain.ReportStatus) error
	// TouchGenerated records the last generation instant. Last writer
	// wins; the definition record is never left partially updated.
	TouchGenerated(ctx context.Context, id string, at time.Time) error
}

type memoryStore struct {
	mu   sync.RWMutex
	defs map[string]*domain.ReportDefinition
}

// NewMemoryStore returns an in-memory Store, used by the web server's
// default wiring and as the test fake for the repository interface.
func NewMemoryStore() Store {
	return &memoryStore{defs: make(map[string]*domain.ReportDefinition)}
}

func (s *memoryStore) Create(_ context.Context, def *domain.ReportDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("definition id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.defs[def.ID]; exists {
		return fmt.Errorf("definition %q already exists", def.ID)
	}
	s.defs[def.ID] = cloneDefinition(def)
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*domain.ReportDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneDefinition(def), nil
}

func (s *memoryStore) Update(_ context.Context, def *domain.ReportDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.defs[def.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, def.ID)
	}
	updated := cloneDefinition(def)
	// ID and creation metadata are immutable once created.
	updated.CreatedAt = existing.CreatedAt
	updated.CreatedBy = existing.CreatedBy
	s.defs[def.ID] = updated
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.defs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.defs, id)
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]domain.ReportDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ReportDefinition, 0, len(s.defs))
	for _, def := range s.defs {
		out = append(out, *cloneDefinition(def))
	}
	return out, nil
}

func (s *memoryStore) SetStatus(_ context.Context, id string, status domain.ReportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.defs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	def.Status = status
	return nil
}

func (s *memoryStore) TouchGenerated(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.defs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	ts := at
	def.LastGenerated = &ts
	return nil
}

func cloneDefinition(def *domain.ReportDefinition) *domain.ReportDefinition {
	out := *def
	out.Filters = append([]domain.ReportFilter(nil), def.Filters...)
	out.Columns = append([]domain.ReportColumn(nil), def.Columns...)
	out.Charts = append([]domain.ChartConfig(nil), def.Charts...)
	if def.LastGenerated != nil {
		ts := *def.LastGenerated
		out.LastGenerated = &ts
	}
	return &out
}
