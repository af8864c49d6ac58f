package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sparrow-vision/access-atlas/pkg/adapters"
	"github.com/sparrow-vision/access-atlas/pkg/export"
	"github.com/sparrow-vision/access-atlas/pkg/models/api"
	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	reportsvc "github.com/sparrow-vision/access-atlas/pkg/services/report"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
)

type Handler struct {
	store     reportstore.Store
	generator *reportsvc.Generator
}

func NewHandler(store reportstore.Store, generator *reportsvc.Generator) *Handler {
	return &Handler{
		store:     store,
		generator: generator,
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defs, err := h.store.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.ReportDefinition, 0, len(defs))
	for _, def := range defs {
		response = append(response, adapters.MapReportDefinitionDomainToApi(def))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.ReportDefinition
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, &reportsvc.ValidationError{Message: "malformed request body"})
		return
	}

	def := adapters.MapReportDefinitionApiToDomain(body)
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if def.Status == "" {
		def.Status = domain.ReportActive
	}
	def.CreatedAt = time.Now().UTC()
	def.LastGenerated = nil

	if err := reportsvc.ValidateDefinition(&def); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.Create(ctx, &def); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapReportDefinitionDomainToApi(def))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	def, err := h.store.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDefinitionDomainToApi(*def))
}

func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body api.ReportDefinition
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, &reportsvc.ValidationError{Message: "malformed request body"})
		return
	}

	def := adapters.MapReportDefinitionApiToDomain(body)
	def.ID = id
	if def.Status == "" {
		def.Status = domain.ReportActive
	}

	if err := reportsvc.ValidateDefinition(&def); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.Update(ctx, &def); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.store.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDefinitionDomainToApi(*updated))
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetReportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body api.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, &reportsvc.ValidationError{Message: "malformed request body"})
		return
	}

	status := domain.ReportStatus(body.Status)
	if status != domain.ReportActive && status != domain.ReportInactive {
		writeError(w, r, &reportsvc.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be %q or %q", domain.ReportActive, domain.ReportInactive),
		})
		return
	}
	if err := h.store.SetStatus(ctx, id, status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	result, err := h.generator.Generate(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportResultDomainToApi(result))
}

// PreviewReport runs an unsaved definition through the normal store
// lifecycle: the throwaway copy is created first and deleted on every
// exit path, including generation failures.
func (h *Handler) PreviewReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.ReportDefinition
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, &reportsvc.ValidationError{Message: "malformed request body"})
		return
	}

	def := adapters.MapReportDefinitionApiToDomain(body)
	def.ID = uuid.NewString()
	if def.Status == "" {
		def.Status = domain.ReportActive
	}
	def.CreatedAt = time.Now().UTC()

	result, err := reportsvc.WithTemporaryReport(ctx, h.store, &def, h.generator.Run)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportResultDomainToApi(result))
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	templates := reportsvc.ListTemplates(category)
	response := make([]api.ReportTemplate, 0, len(templates))
	for _, tpl := range templates {
		response = append(response, adapters.MapReportTemplateDomainToApi(tpl))
	}
	writeJSON(w, r, http.StatusOK, response)
}

// ExportReport generates a throwaway definition and streams the
// encoded file back with download headers.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, &reportsvc.ValidationError{Field: "format", Message: err.Error()})
		return
	}

	var body api.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, &reportsvc.ValidationError{Message: "malformed request body"})
		return
	}

	def := adapters.MapReportDefinitionApiToDomain(body.Definition)
	def.ID = uuid.NewString()
	if def.Status == "" {
		def.Status = domain.ReportActive
	}
	if def.Name == "" {
		def.Name = "export"
	}
	def.CreatedAt = time.Now().UTC()

	result, err := reportsvc.WithTemporaryReport(ctx, h.store, &def, h.generator.Run)
	if err != nil {
		writeError(w, r, err)
		return
	}

	encoded, err := export.Encode(result, def.Columns, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", def.Name, result.Summary.GeneratedAt.Format("2006-01-02"), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(encoded); err != nil {
		logger.Error().Err(err).Str("format", string(format)).Msg("failed to write export body")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	status := http.StatusInternalServerError
	envelope := api.Error{Error: err.Error()}

	var validationErr *reportsvc.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		envelope.Field = validationErr.Field
	case errors.Is(err, reportstore.ErrNotFound):
		status = http.StatusNotFound
	default:
		var genErr *reportsvc.GenerationError
		if errors.As(err, &genErr) {
			status = http.StatusUnprocessableEntity
		}
	}

	logger.Error().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, envelope)
}
