package domain

import "time"

// FilterOperator identifies a filter predicate.
type FilterOperator string

const (
	OperatorEquals      FilterOperator = "equals"
	OperatorContains    FilterOperator = "contains"
	OperatorGreaterThan FilterOperator = "greater_than"
	OperatorLessThan    FilterOperator = "less_than"
	OperatorBetween     FilterOperator = "between"
	OperatorIn          FilterOperator = "in"
)

// Aggregation collapses a bucket of records to a single scalar.
type Aggregation string

const (
	AggregationCount   Aggregation = "count"
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
	AggregationMin     Aggregation = "min"
	AggregationMax     Aggregation = "max"
)

// ChartType identifies the rendering shape of a chart.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartDonut   ChartType = "donut"
	ChartArea    ChartType = "area"
	ChartScatter ChartType = "scatter"
)

// ReportStatus gates generation of a definition.
type ReportStatus string

const (
	ReportActive   ReportStatus = "active"
	ReportInactive ReportStatus = "inactive"
)

// ChartYAxisCount is the literal yAxis value meaning "count of rows in
// this x-axis group" instead of a numeric field name.
const ChartYAxisCount = "count"

// ReportFilter is a single predicate over one registered field.
// Value carries the operator's payload: a literal for equals/contains
// and the strict comparisons, a two-element [min, max] range for
// between, and a list for in. Shape is validated before evaluation
// begins.
type ReportFilter struct {
	Field    string         `json:"field" validate:"required"`
	Operator FilterOperator `json:"operator" validate:"required,oneof=equals contains greater_than less_than between in"`
	Value    any            `json:"value"`
	Label    string         `json:"label"`
}

// ReportColumn projects one output column. An Aggregation other than
// count is only valid on number-typed columns; any column with an
// aggregation forces a group-by over all non-aggregated columns.
type ReportColumn struct {
	Key         string      `json:"key" validate:"required"`
	Label       string      `json:"label"`
	Type        FieldType   `json:"type" validate:"required,oneof=string number date array boolean"`
	Aggregation Aggregation `json:"aggregation,omitempty" validate:"omitempty,oneof=count sum average min max"`
}

// ChartConfig binds a chart to the projected rows.
type ChartConfig struct {
	Type       ChartType `json:"type" validate:"required,oneof=bar line pie donut area scatter"`
	XAxis      string    `json:"xAxis" validate:"required"`
	YAxis      string    `json:"yAxis"`
	Title      string    `json:"title"`
	ShowLegend bool      `json:"showLegend"`
}

// ReportDefinition is a saved, reusable bundle of filters,
// columns and charts. ID is immutable once created; status=inactive
// blocks generation.
type ReportDefinition struct {
	ID            string         `json:"id"`
	Name          string         `json:"name" validate:"required"`
	Description   string         `json:"description"`
	Type          string         `json:"type"`
	Template      string         `json:"template"`
	Filters       []ReportFilter `json:"filters" validate:"dive"`
	Columns       []ReportColumn `json:"columns" validate:"min=1,dive"`
	Charts        []ChartConfig  `json:"charts" validate:"dive"`
	CreatedBy     string         `json:"createdBy"`
	Status        ReportStatus   `json:"status" validate:"required,oneof=active inactive"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastGenerated *time.Time     `json:"lastGenerated,omitempty"`
}

// ReportTemplate is a pre-built filter/column/chart bundle used to
// seed a new definition.
type ReportTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Filters     []ReportFilter `json:"filters"`
	Columns     []ReportColumn `json:"columns"`
	Charts      []ChartConfig  `json:"charts"`
}

// Row is one projected output row, keyed by column key.
type Row map[string]any

// SeriesPoint is a single (label, value) entry of a computed chart
// series. Values are raw; percentage scaling is left to the consumer.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is the computed series for one ChartConfig.
type ChartSeries struct {
	Title  string        `json:"title"`
	Type   ChartType     `json:"type"`
	Points []SeriesPoint `json:"points"`
}

// ReportSummary carries the aggregate framing of a result.
type ReportSummary struct {
	TotalRecords int       `json:"totalRecords"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// ReportResult is the materialized output of running a definition
// against current data. A result is immutable once produced;
// re-running a report produces a new result. Warnings records
// per-source fetch failures that degraded, but did not abort, the run.
type ReportResult struct {
	Data            []Row         `json:"data"`
	Summary         ReportSummary `json:"summary"`
	Charts          []ChartSeries `json:"charts"`
	Insights        []string      `json:"insights"`
	Recommendations []string      `json:"recommendations"`
	Warnings        []string      `json:"warnings,omitempty"`
}
