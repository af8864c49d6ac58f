package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FetchAllSources(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&StaticSource{
		SourceKind: KindUserAccess,
		Records:    []domain.Record{{"email": "a@corp.io"}},
	}))
	require.NoError(t, registry.Register(&StaticSource{
		SourceKind: KindAudit,
		Records:    []domain.Record{{"action": "login"}, {"action": "push"}},
	}))

	result := registry.Fetch(context.Background())
	assert.Len(t, result.Records, 3)
	assert.Empty(t, result.Failures)
}

func TestRegistry_FetchIsolatesSourceFailures(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&StaticSource{
		SourceKind: KindUserAccess,
		Records:    []domain.Record{{"email": "a@corp.io"}},
	}))
	require.NoError(t, registry.Register(&StaticSource{
		SourceKind: KindAudit,
		Err:        errors.New("connection reset"),
	}))

	result := registry.Fetch(context.Background())
	require.Len(t, result.Records, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, KindAudit, result.Failures[0].Kind)
	assert.Contains(t, result.Failures[0].Err.Error(), "connection reset")
}

func TestRegistry_FetchSelectedKinds(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&StaticSource{
		SourceKind: KindUserAccess,
		Records:    []domain.Record{{"email": "a@corp.io"}},
	}))

	result := registry.Fetch(context.Background(), KindUserAccess, KindPolicyViolation)
	assert.Len(t, result.Records, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, KindPolicyViolation, result.Failures[0].Kind)
	assert.Contains(t, result.Failures[0].Err.Error(), "no source registered")
}

func TestRegistry_DuplicateKindRejected(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&StaticSource{SourceKind: KindAudit}))
	assert.Error(t, registry.Register(&StaticSource{SourceKind: KindAudit}))
}
