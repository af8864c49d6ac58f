package report

import (
	"testing"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind_BarFollowsProjectorOrder(t *testing.T) {
	rows := []domain.Row{
		{"tool": "Slack", "riskScore": float64(40)},
		{"tool": "GitHub", "riskScore": float64(90)},
		{"tool": "Jira", "riskScore": float64(10)},
	}
	series := Bind(rows, domain.ChartConfig{Type: domain.ChartBar, XAxis: "tool", YAxis: "riskScore", Title: "Risk by Tool"})

	require.Len(t, series.Points, 3)
	assert.Equal(t, "Slack", series.Points[0].Label)
	assert.Equal(t, "GitHub", series.Points[1].Label)
	assert.Equal(t, "Jira", series.Points[2].Label)
	assert.Equal(t, float64(90), series.Points[1].Value)
	assert.Equal(t, "Risk by Tool", series.Title)
}

func TestBind_BarWithCountGroupsByAxis(t *testing.T) {
	rows := []domain.Row{
		{"status": "ACTIVE"},
		{"status": "EXIT"},
		{"status": "ACTIVE"},
	}
	series := Bind(rows, domain.ChartConfig{Type: domain.ChartBar, XAxis: "status", YAxis: domain.ChartYAxisCount})

	require.Len(t, series.Points, 2)
	assert.Equal(t, domain.SeriesPoint{Label: "ACTIVE", Value: 2}, series.Points[0])
	assert.Equal(t, domain.SeriesPoint{Label: "EXIT", Value: 1}, series.Points[1])
}

func TestBind_PieCountsDistinctValues(t *testing.T) {
	rows := []domain.Row{
		{"department": "eng"},
		{"department": "sales"},
		{"department": "eng"},
		{"department": "eng"},
	}
	series := Bind(rows, domain.ChartConfig{Type: domain.ChartPie, XAxis: "department", YAxis: domain.ChartYAxisCount})

	require.Len(t, series.Points, 2)
	assert.Equal(t, domain.SeriesPoint{Label: "eng", Value: 3}, series.Points[0])
	assert.Equal(t, domain.SeriesPoint{Label: "sales", Value: 1}, series.Points[1])
}

func TestBind_DonutSumsNumericAxis(t *testing.T) {
	rows := []domain.Row{
		{"tool": "Slack", "riskScore": float64(10)},
		{"tool": "Slack", "riskScore": float64(30)},
		{"tool": "GitHub", "riskScore": float64(5)},
	}
	series := Bind(rows, domain.ChartConfig{Type: domain.ChartDonut, XAxis: "tool", YAxis: "riskScore"})

	require.Len(t, series.Points, 2)
	assert.Equal(t, domain.SeriesPoint{Label: "Slack", Value: 40}, series.Points[0])
	assert.Equal(t, domain.SeriesPoint{Label: "GitHub", Value: 5}, series.Points[1])
}

func TestBind_ScatterDropsNonNumericRows(t *testing.T) {
	rows := []domain.Row{
		{"riskScore": float64(10), "userId": float64(1)},
		{"riskScore": "n/a", "userId": float64(2)},
		{"riskScore": float64(55), "userId": float64(3)},
	}
	series := Bind(rows, domain.ChartConfig{Type: domain.ChartScatter, XAxis: "userId", YAxis: "riskScore"})

	require.Len(t, series.Points, 2)
	assert.Equal(t, float64(10), series.Points[0].Value)
	assert.Equal(t, float64(55), series.Points[1].Value)
}
