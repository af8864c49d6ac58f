package api

import "time"

type FilterOperator string

const (
	OperatorEquals      FilterOperator = "equals"
	OperatorContains    FilterOperator = "contains"
	OperatorGreaterThan FilterOperator = "greater_than"
	OperatorLessThan    FilterOperator = "less_than"
	OperatorBetween     FilterOperator = "between"
	OperatorIn          FilterOperator = "in"
)

type ReportFilter struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    interface{}    `json:"value"`
	Label    string         `json:"label,omitempty"`
}

type ReportColumn struct {
	Key         string `json:"key"`
	Label       string `json:"label,omitempty"`
	Type        string `json:"type"`
	Aggregation string `json:"aggregation,omitempty"`
}

type ChartConfig struct {
	Type       string `json:"type"`
	XAxis      string `json:"xAxis"`
	YAxis      string `json:"yAxis,omitempty"`
	Title      string `json:"title,omitempty"`
	ShowLegend bool   `json:"showLegend"`
}

type ReportDefinition struct {
	Id            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Type          string         `json:"type,omitempty"`
	Template      string         `json:"template,omitempty"`
	Filters       []ReportFilter `json:"filters"`
	Columns       []ReportColumn `json:"columns"`
	Charts        []ChartConfig  `json:"charts"`
	CreatedBy     string         `json:"createdBy,omitempty"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastGenerated *time.Time     `json:"lastGenerated,omitempty"`
}

type ReportTemplate struct {
	Id          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category"`
	Filters     []ReportFilter `json:"filters"`
	Columns     []ReportColumn `json:"columns"`
	Charts      []ChartConfig  `json:"charts"`
}

type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ChartSeries struct {
	Title  string        `json:"title"`
	Type   string        `json:"type"`
	Points []SeriesPoint `json:"points"`
}

type ReportSummary struct {
	TotalRecords int       `json:"totalRecords"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

type ReportResult struct {
	Data            []map[string]interface{} `json:"data"`
	Summary         ReportSummary            `json:"summary"`
	Charts          []ChartSeries            `json:"charts"`
	Insights        []string                 `json:"insights"`
	Recommendations []string                 `json:"recommendations"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

// StatusUpdate toggles a definition between active and inactive.
type StatusUpdate struct {
	Status string `json:"status"`
}

// ExportRequest runs a throwaway definition and streams the encoded
// file back in the requested format.
type ExportRequest struct {
	Definition ReportDefinition `json:"definition"`
}

// Error is the uniform error envelope for the report API.
type Error struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
