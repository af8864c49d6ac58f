// Package provider supplies raw records to the report engine. Sources
// are registered per record kind; fetch failures are isolated per
// source so one broken integration degrades a report instead of
// aborting it.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// Kind names a record source category.
type Kind string

const (
	KindUserAccess      Kind = "user_access"
	KindAudit           Kind = "audit"
	KindPolicyViolation Kind = "policy_violation"
)

// Source supplies records of a single kind.
type Source interface {
	Kind() Kind
	GetRecords(ctx context.Context) ([]domain.Record, error)
}

// SourceFailure pairs a failed kind with the error it produced, so
// callers can attribute degraded results to a specific source.
type SourceFailure struct {
	Kind Kind
	Err  error
}

// FetchResult is the outcome of fetching across all registered
// sources. Failures holds one entry per failed source.
type FetchResult struct {
	Records  []domain.Record
	Failures []SourceFailure
}

// Registry maps record kinds to their sources, preserving
// registration order so fetches are deterministic.
type Registry struct {
	mu      sync.RWMutex
	sources map[Kind]Source
	order   []Kind
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[Kind]Source)}
}

// Register adds a source for its kind. At most one source per kind.
func (r *Registry) Register(src Source) error {
	if src == nil {
		return fmt.Errorf("source cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := src.Kind()
	if _, exists := r.sources[kind]; exists {
		return fmt.Errorf("source for kind %q is already registered", kind)
	}
	r.sources[kind] = src
	r.order = append(r.order, kind)
	return nil
}

// Kinds lists the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Kind(nil), r.order...)
}

// Fetch collects records from the requested kinds. An empty kinds
// list means all registered sources. Each source failure is recorded
// and skipped; generation proceeds with whatever records did arrive.
func (r *Registry) Fetch(ctx context.Context, kinds ...Kind) FetchResult {
	logger := zerolog.Ctx(ctx)

	if len(kinds) == 0 {
		kinds = r.Kinds()
	}

	var result FetchResult
	for _, kind := range kinds {
		r.mu.RLock()
		src, ok := r.sources[kind]
		r.mu.RUnlock()
		if !ok {
			result.Failures = append(result.Failures, SourceFailure{
				Kind: kind,
				Err:  fmt.Errorf("no source registered for kind %q", kind),
			})
			continue
		}

		records, err := src.GetRecords(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("kind", string(kind)).Msg("record source fetch failed")
			result.Failures = append(result.Failures, SourceFailure{Kind: kind, Err: err})
			continue
		}
		result.Records = append(result.Records, records...)
	}
	return result
}

// StaticSource wraps a fixed record set, used by the CLI snapshot
// runner and in tests.
type StaticSource struct {
	SourceKind Kind
	Records    []domain.Record
	Err        error
}

func (s *StaticSource) Kind() Kind { return s.SourceKind }

func (s *StaticSource) GetRecords(_ context.Context) ([]domain.Record, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}
