package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/sparrow-vision/access-atlas/pkg/services/provider"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userAccessSource(records ...domain.Record) *provider.StaticSource {
	return &provider.StaticSource{SourceKind: provider.KindUserAccess, Records: records}
}

func testDefinition() *domain.ReportDefinition {
	return &domain.ReportDefinition{
		ID:     "rpt-1",
		Name:   "Tool Roster",
		Status: domain.ReportActive,
		Columns: []domain.ReportColumn{
			{Key: "email", Label: "Email", Type: domain.FieldTypeString},
			{Key: "tool", Label: "Tool", Type: domain.FieldTypeString},
		},
	}
}

func newTestGenerator(t *testing.T, def *domain.ReportDefinition, sources ...provider.Source) (*Generator, reportstore.Store) {
	t.Helper()
	store := reportstore.NewMemoryStore()
	if def != nil {
		require.NoError(t, store.Create(context.Background(), def))
	}
	registry := provider.NewRegistry()
	for _, src := range sources {
		require.NoError(t, registry.Register(src))
	}
	return NewGenerator(store, registry), store
}

func TestGenerate_ProducesRowsAndTouchesTimestamp(t *testing.T) {
	ctx := context.Background()
	def := testDefinition()
	gen, store := newTestGenerator(t, def,
		userAccessSource(
			domain.Record{"email": "a@corp.io", "tool": "Slack"},
			domain.Record{"email": "b@corp.io", "tool": "GitHub"},
		),
	)

	result, err := gen.Generate(ctx, def.ID)
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, 2, result.Summary.TotalRecords)
	assert.Empty(t, result.Warnings)

	stored, err := store.Get(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastGenerated)
	assert.Equal(t, result.Summary.GeneratedAt, *stored.LastGenerated)
}

func TestGenerate_InactiveDefinitionFails(t *testing.T) {
	def := testDefinition()
	def.Status = domain.ReportInactive
	gen, _ := newTestGenerator(t, def, userAccessSource(domain.Record{"email": "a@corp.io"}))

	_, err := gen.Generate(context.Background(), def.ID)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Error(), "inactive")
}

func TestGenerate_UnknownFilterFieldFails(t *testing.T) {
	def := testDefinition()
	def.Filters = []domain.ReportFilter{
		{Field: "not-a-field", Operator: domain.OperatorEquals, Value: "x"},
	}
	gen, _ := newTestGenerator(t, def, userAccessSource(domain.Record{"email": "a@corp.io"}))

	_, err := gen.Generate(context.Background(), def.ID)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.True(t, IsValidation(err))
}

func TestGenerate_SourceFailureDegradesInsteadOfAborting(t *testing.T) {
	def := testDefinition()
	gen, _ := newTestGenerator(t, def,
		userAccessSource(domain.Record{"email": "a@corp.io", "tool": "Slack"}),
		&provider.StaticSource{SourceKind: provider.KindAudit, Err: errors.New("upstream 503")},
	)

	result, err := gen.Generate(context.Background(), def.ID)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "audit")
	assert.Contains(t, result.Warnings[0], "upstream 503")
}

func TestGenerate_NoRecordsAtAllFails(t *testing.T) {
	def := testDefinition()
	gen, _ := newTestGenerator(t, def,
		&provider.StaticSource{SourceKind: provider.KindUserAccess, Err: errors.New("upstream 503")},
	)

	_, err := gen.Generate(context.Background(), def.ID)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Error(), "no records")

	// The failed source is attributed inside the wrapped error chain.
	var fetchErr *SourceFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, string(provider.KindUserAccess), fetchErr.Source)
	assert.ErrorContains(t, fetchErr.Err, "upstream 503")
}

func TestGenerate_MissingDefinitionFails(t *testing.T) {
	gen, _ := newTestGenerator(t, nil, userAccessSource(domain.Record{"email": "a@corp.io"}))

	_, err := gen.Generate(context.Background(), "nope")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, reportstore.ErrNotFound)
}

func TestWithTemporaryReport_DeletesOnSuccess(t *testing.T) {
	ctx := context.Background()
	def := testDefinition()
	gen, store := newTestGenerator(t, nil, userAccessSource(domain.Record{"email": "a@corp.io", "tool": "Slack"}))

	result, err := WithTemporaryReport(ctx, store, def, gen.Run)
	require.NoError(t, err)
	require.NotNil(t, result)

	_, err = store.Get(ctx, def.ID)
	assert.ErrorIs(t, err, reportstore.ErrNotFound)
}

func TestWithTemporaryReport_DeletesOnFailure(t *testing.T) {
	ctx := context.Background()
	def := testDefinition()
	store := reportstore.NewMemoryStore()

	_, err := WithTemporaryReport(ctx, store, def,
		func(context.Context, *domain.ReportDefinition) (*domain.ReportResult, error) {
			return nil, fmt.Errorf("generation blew up")
		})
	require.Error(t, err)

	_, err = store.Get(ctx, def.ID)
	assert.ErrorIs(t, err, reportstore.ErrNotFound)
}

func TestListTemplates_FilterByCategory(t *testing.T) {
	all := ListTemplates("")
	assert.NotEmpty(t, all)

	compliance := ListTemplates("compliance")
	require.NotEmpty(t, compliance)
	for _, tpl := range compliance {
		assert.Equal(t, "compliance", tpl.Category)
	}
}
