package adapters

import (
	"github.com/sparrow-vision/access-atlas/pkg/models/api"
	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

func MapReportFilterApiToDomain(f api.ReportFilter) domain.ReportFilter {
	return domain.ReportFilter{
		Field:    f.Field,
		Operator: domain.FilterOperator(f.Operator),
		Value:    f.Value,
		Label:    f.Label,
	}
}

func MapReportFilterDomainToApi(f domain.ReportFilter) api.ReportFilter {
	return api.ReportFilter{
		Field:    f.Field,
		Operator: api.FilterOperator(f.Operator),
		Value:    f.Value,
		Label:    f.Label,
	}
}

func MapReportColumnApiToDomain(c api.ReportColumn) domain.ReportColumn {
	return domain.ReportColumn{
		Key:         c.Key,
		Label:       c.Label,
		Type:        domain.FieldType(c.Type),
		Aggregation: domain.Aggregation(c.Aggregation),
	}
}

func MapReportColumnDomainToApi(c domain.ReportColumn) api.ReportColumn {
	return api.ReportColumn{
		Key:         c.Key,
		Label:       c.Label,
		Type:        string(c.Type),
		Aggregation: string(c.Aggregation),
	}
}

func MapChartConfigApiToDomain(c api.ChartConfig) domain.ChartConfig {
	return domain.ChartConfig{
		Type:       domain.ChartType(c.Type),
		XAxis:      c.XAxis,
		YAxis:      c.YAxis,
		Title:      c.Title,
		ShowLegend: c.ShowLegend,
	}
}

func MapChartConfigDomainToApi(c domain.ChartConfig) api.ChartConfig {
	return api.ChartConfig{
		Type:       string(c.Type),
		XAxis:      c.XAxis,
		YAxis:      c.YAxis,
		Title:      c.Title,
		ShowLegend: c.ShowLegend,
	}
}

func MapReportDefinitionApiToDomain(d api.ReportDefinition) domain.ReportDefinition {
	def := domain.ReportDefinition{
		ID:            d.Id,
		Name:          d.Name,
		Description:   d.Description,
		Type:          d.Type,
		Template:      d.Template,
		CreatedBy:     d.CreatedBy,
		Status:        domain.ReportStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		LastGenerated: d.LastGenerated,
	}
	for _, f := range d.Filters {
		def.Filters = append(def.Filters, MapReportFilterApiToDomain(f))
	}
	for _, c := range d.Columns {
		def.Columns = append(def.Columns, MapReportColumnApiToDomain(c))
	}
	for _, ch := range d.Charts {
		def.Charts = append(def.Charts, MapChartConfigApiToDomain(ch))
	}
	return def
}

func MapReportDefinitionDomainToApi(d domain.ReportDefinition) api.ReportDefinition {
	def := api.ReportDefinition{
		Id:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Type:          d.Type,
		Template:      d.Template,
		Filters:       []api.ReportFilter{},
		Columns:       []api.ReportColumn{},
		Charts:        []api.ChartConfig{},
		CreatedBy:     d.CreatedBy,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		LastGenerated: d.LastGenerated,
	}
	for _, f := range d.Filters {
		def.Filters = append(def.Filters, MapReportFilterDomainToApi(f))
	}
	for _, c := range d.Columns {
		def.Columns = append(def.Columns, MapReportColumnDomainToApi(c))
	}
	for _, ch := range d.Charts {
		def.Charts = append(def.Charts, MapChartConfigDomainToApi(ch))
	}
	return def
}

func MapReportTemplateDomainToApi(t domain.ReportTemplate) api.ReportTemplate {
	tpl := api.ReportTemplate{
		Id:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Filters:     []api.ReportFilter{},
		Columns:     []api.ReportColumn{},
		Charts:      []api.ChartConfig{},
	}
	for _, f := range t.Filters {
		tpl.Filters = append(tpl.Filters, MapReportFilterDomainToApi(f))
	}
	for _, c := range t.Columns {
		tpl.Columns = append(tpl.Columns, MapReportColumnDomainToApi(c))
	}
	for _, ch := range t.Charts {
		tpl.Charts = append(tpl.Charts, MapChartConfigDomainToApi(ch))
	}
	return tpl
}

func MapReportResultDomainToApi(r *domain.ReportResult) api.ReportResult {
	result := api.ReportResult{
		Data: make([]map[string]interface{}, 0, len(r.Data)),
		Summary: api.ReportSummary{
			TotalRecords: r.Summary.TotalRecords,
			GeneratedAt:  r.Summary.GeneratedAt,
		},
		Charts:          []api.ChartSeries{},
		Insights:        r.Insights,
		Recommendations: r.Recommendations,
		Warnings:        r.Warnings,
	}
	for _, row := range r.Data {
		result.Data = append(result.Data, map[string]interface{}(row))
	}
	for _, series := range r.Charts {
		apiSeries := api.ChartSeries{
			Title:  series.Title,
			Type:   string(series.Type),
			Points: []api.SeriesPoint{},
		}
		for _, p := range series.Points {
			apiSeries.Points = append(apiSeries.Points, api.SeriesPoint{Label: p.Label, Value: p.Value})
		}
		result.Charts = append(result.Charts, apiSeries)
	}
	return result
}
