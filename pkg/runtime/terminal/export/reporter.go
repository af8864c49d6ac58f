package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

type TableConfig struct {
	ColumnWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		ColumnWidth: 24,
	}
}

// Reporter renders a report result as a fixed-width text table with
// the summary, charts and insights underneath.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type resultView struct {
	GeneratedAt     time.Time
	TotalRecords    int
	Headers         []string
	Rows            [][]string
	Charts          []domain.ChartSeries
	Insights        []string
	Recommendations []string
	Warnings        []string
}

func (c *Reporter) Handle(result *domain.ReportResult, columns []domain.ReportColumn) error {
	view := resultView{
		GeneratedAt:     result.Summary.GeneratedAt,
		TotalRecords:    result.Summary.TotalRecords,
		Charts:          result.Charts,
		Insights:        result.Insights,
		Recommendations: result.Recommendations,
		Warnings:        result.Warnings,
	}
	for _, col := range columns {
		label := col.Label
		if label == "" {
			label = col.Key
		}
		view.Headers = append(view.Headers, label)
	}
	for _, row := range result.Data {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, formatCell(row[col.Key]))
		}
		view.Rows = append(view.Rows, cells)
	}

	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			parts := make([]string, 0, len(cells))
			for _, cell := range cells {
				if len(cell) > c.config.ColumnWidth {
					cell = cell[:c.config.ColumnWidth-3] + "..."
				}
				parts = append(parts, fmt.Sprintf(" %-*s ", c.config.ColumnWidth, cell))
			}
			return "|" + strings.Join(parts, "|") + "|"
		},
		"separator": func(cells []string) string {
			parts := make([]string, 0, len(cells))
			for range cells {
				parts = append(parts, strings.Repeat("-", c.config.ColumnWidth+2))
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
	}

	tmpl := `
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
Total Records: {{.TotalRecords}}

{{separator .Headers}}
{{formatRow .Headers}}
{{separator .Headers}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator .Headers}}
{{range .Charts}}
=== {{.Title}} ({{.Type}}) ===
{{range .Points}}{{printf "%-30s %v" .Label .Value}}
{{end}}{{end}}{{if .Insights}}
Insights:
{{range .Insights}}- {{.}}
{{end}}{{end}}{{if .Recommendations}}
Recommendations:
{{range .Recommendations}}- {{.}}
{{end}}{{end}}{{if .Warnings}}
Warnings:
{{range .Warnings}}- {{.}}
{{end}}{{end}}`

	t, err := template.New("result").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, view)
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format("2006-01-02")
	case []string:
		return strings.Join(val, ";")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
