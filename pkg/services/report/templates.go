package report

import "github.com/sparrow-vision/access-atlas/pkg/models/domain"

// builtinTemplates are the pre-built filter/column/chart bundles the
// builder offers when creating a new definition.
var builtinTemplates = []domain.ReportTemplate{
	{
		ID:          "access-review",
		Name:        "Quarterly Access Review",
		Description: "Synced user roster with tool, role and risk posture for periodic certification",
		Category:    "compliance",
		Columns: []domain.ReportColumn{
			{Key: "email", Label: "Email", Type: domain.FieldTypeString},
			{Key: "tool", Label: "Tool", Type: domain.FieldTypeString},
			{Key: "role", Label: "Role", Type: domain.FieldTypeString},
			{Key: "status", Label: "Status", Type: domain.FieldTypeString},
			{Key: "lastLogin", Label: "Last Login", Type: domain.FieldTypeDate},
			{Key: "riskScore", Label: "Risk Score", Type: domain.FieldTypeNumber},
		},
		Charts: []domain.ChartConfig{
			{Type: domain.ChartPie, XAxis: "status", YAxis: domain.ChartYAxisCount, Title: "Users by Status", ShowLegend: true},
		},
	},
	{
		ID:          "critical-audit-events",
		Name:        "Critical Audit Events",
		Description: "High and critical severity audit events across all tools",
		Category:    "security",
		Filters: []domain.ReportFilter{
			{Field: "severity", Operator: domain.OperatorIn, Value: []any{"HIGH", "CRITICAL"}, Label: "High or critical severity"},
		},
		Columns: []domain.ReportColumn{
			{Key: "timestamp", Label: "Timestamp", Type: domain.FieldTypeDate},
			{Key: "action", Label: "Action", Type: domain.FieldTypeString},
			{Key: "resource", Label: "Resource", Type: domain.FieldTypeString},
			{Key: "severity", Label: "Severity", Type: domain.FieldTypeString},
			{Key: "outcome", Label: "Outcome", Type: domain.FieldTypeString},
		},
		Charts: []domain.ChartConfig{
			{Type: domain.ChartBar, XAxis: "severity", YAxis: domain.ChartYAxisCount, Title: "Events by Severity"},
		},
	},
	{
		ID:          "tool-adoption",
		Name:        "Tool Adoption Overview",
		Description: "Seat counts per connected tool",
		Category:    "operational",
		Columns: []domain.ReportColumn{
			{Key: "tool", Label: "Tool", Type: domain.FieldTypeString},
			{Key: "userId", Label: "Users", Type: domain.FieldTypeString, Aggregation: domain.AggregationCount},
		},
		Charts: []domain.ChartConfig{
			{Type: domain.ChartBar, XAxis: "tool", YAxis: "userId", Title: "Users per Tool"},
		},
	},
	{
		ID:          "blank",
		Name:        "Blank Report",
		Description: "Start from an empty definition",
		Category:    "custom",
		Columns: []domain.ReportColumn{
			{Key: "email", Label: "Email", Type: domain.FieldTypeString},
		},
	},
}

// ListTemplates returns the available templates, optionally narrowed
// to one category. Copies are returned so callers can mutate freely.
func ListTemplates(category string) []domain.ReportTemplate {
	out := make([]domain.ReportTemplate, 0, len(builtinTemplates))
	for _, tpl := range builtinTemplates {
		if category != "" && tpl.Category != category {
			continue
		}
		copied := tpl
		copied.Filters = append([]domain.ReportFilter(nil), tpl.Filters...)
		copied.Columns = append([]domain.ReportColumn(nil), tpl.Columns...)
		copied.Charts = append([]domain.ChartConfig(nil), tpl.Charts...)
		out = append(out, copied)
	}
	return out
}
