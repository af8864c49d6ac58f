package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/sparrow-vision/access-atlas/pkg/services/provider"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
)

// Generator runs report definitions against the current record set.
// Each generation is a pure function of the definition plus a snapshot
// of fetched records; generations of different definitions share no
// mutable state.
type Generator struct {
	store    reportstore.Store
	registry *provider.Registry
}

func NewGenerator(store reportstore.Store, registry *provider.Registry) *Generator {
	return &Generator{store: store, registry: registry}
}

// Generate looks up a stored definition and materializes it. It fails
// with a *GenerationError when the definition is inactive, fails
// validation, or no source could supply any records. Per-source fetch
// failures surface as warnings on the result instead of aborting.
func (g *Generator) Generate(ctx context.Context, id string) (*domain.ReportResult, error) {
	def, err := g.store.Get(ctx, id)
	if err != nil {
		return nil, &GenerationError{ReportID: id, Err: err}
	}

	result, err := g.Run(ctx, def)
	if err != nil {
		return nil, err
	}

	// Last writer wins; a failed touch does not invalidate the
	// already-detached result.
	if err := g.store.TouchGenerated(ctx, id, result.Summary.GeneratedAt); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("report_id", id).Msg("failed to record generation timestamp")
	}
	return result, nil
}

// Run materializes a definition without consulting the store, used by
// Generate and by the preview workflow where the definition is
// throwaway.
func (g *Generator) Run(ctx context.Context, def *domain.ReportDefinition) (*domain.ReportResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("report", def.Name).Logger()

	if def.Status == domain.ReportInactive {
		return nil, &GenerationError{ReportID: def.ID, Err: fmt.Errorf("definition is inactive")}
	}
	if err := ValidateDefinition(def); err != nil {
		return nil, &GenerationError{ReportID: def.ID, Err: err}
	}

	fetched := g.registry.Fetch(ctx, kindsForType(def.Type)...)
	fetchErrs := make([]error, 0, len(fetched.Failures))
	warnings := make([]string, 0, len(fetched.Failures))
	for _, failure := range fetched.Failures {
		fetchErr := &SourceFetchError{Source: string(failure.Kind), Err: failure.Err}
		fetchErrs = append(fetchErrs, fetchErr)
		warnings = append(warnings, fetchErr.Error())
	}
	if len(fetched.Records) == 0 {
		err := fmt.Errorf("no records available from any source (%d sources failed)", len(fetchErrs))
		if len(fetchErrs) > 0 {
			err = fmt.Errorf("no records available from any source: %w", errors.Join(fetchErrs...))
		}
		return nil, &GenerationError{ReportID: def.ID, Err: err}
	}

	filtered, err := Evaluate(fetched.Records, def.Filters)
	if err != nil {
		return nil, &GenerationError{ReportID: def.ID, Err: err}
	}

	rows, err := Project(filtered, def.Columns)
	if err != nil {
		return nil, &GenerationError{ReportID: def.ID, Err: err}
	}

	summary := domain.ReportSummary{
		TotalRecords: len(filtered),
		GeneratedAt:  time.Now().UTC(),
	}

	charts := make([]domain.ChartSeries, 0, len(def.Charts))
	for _, chart := range def.Charts {
		charts = append(charts, Bind(rows, chart))
	}

	insights, recommendations := GenerateInsights(summary, rows)

	logger.Info().
		Int("records", len(fetched.Records)).
		Int("filtered", len(filtered)).
		Int("rows", len(rows)).
		Int("warnings", len(warnings)).
		Msg("report generated")

	return &domain.ReportResult{
		Data:            rows,
		Summary:         summary,
		Charts:          charts,
		Insights:        insights,
		Recommendations: recommendations,
		Warnings:        warnings,
	}, nil
}

// kindsForType maps a definition type to the record kinds it draws
// from. Unknown or custom types read every registered source.
func kindsForType(defType string) []provider.Kind {
	switch defType {
	case "compliance":
		return []provider.Kind{provider.KindUserAccess, provider.KindPolicyViolation}
	case "security":
		return []provider.Kind{provider.KindAudit, provider.KindPolicyViolation}
	case "operational":
		return []provider.Kind{provider.KindUserAccess, provider.KindAudit}
	default:
		return nil
	}
}

// WithTemporaryReport runs fn against a throwaway definition that is
// created first and deleted on every exit path, including when fn
// fails or panics. This backs the builder's preview workflow.
func WithTemporaryReport(
	ctx context.Context,
	store reportstore.Store,
	def *domain.ReportDefinition,
	fn func(ctx context.Context, def *domain.ReportDefinition) (*domain.ReportResult, error),
) (result *domain.ReportResult, err error) {
	if err := store.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("create temporary definition: %w", err)
	}
	defer func() {
		if delErr := store.Delete(ctx, def.ID); delErr != nil {
			zerolog.Ctx(ctx).Error().Err(delErr).Str("report_id", def.ID).Msg("failed to delete temporary definition")
			if err == nil {
				err = delErr
			}
		}
	}()

	return fn(ctx, def)
}
