package report

import (
	"fmt"
	"strconv"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// Bind derives a (label, value) series from projected rows for one
// chart configuration. Values are returned raw; width/percentage
// scaling is left to the renderer.
func Bind(rows []domain.Row, chart domain.ChartConfig) domain.ChartSeries {
	series := domain.ChartSeries{
		Title: chart.Title,
		Type:  chart.Type,
	}

	switch chart.Type {
	case domain.ChartPie, domain.ChartDonut:
		series.Points = bindGrouped(rows, chart)
	case domain.ChartScatter:
		series.Points = bindScatter(rows, chart)
	default:
		// bar, line, area
		if chart.YAxis == domain.ChartYAxisCount || chart.YAxis == "" {
			series.Points = bindGrouped(rows, chart)
		} else {
			series.Points = bindPerRow(rows, chart)
		}
	}
	return series
}

// bindGrouped emits one point per distinct x-axis value, in
// first-encounter row order. The value is the row count of the group,
// or the sum of the y-axis field when one is named.
func bindGrouped(rows []domain.Row, chart domain.ChartConfig) []domain.SeriesPoint {
	sumY := chart.YAxis != "" && chart.YAxis != domain.ChartYAxisCount

	index := make(map[string]int)
	points := make([]domain.SeriesPoint, 0)
	for _, row := range rows {
		label := axisLabel(row[chart.XAxis])
		i, seen := index[label]
		if !seen {
			i = len(points)
			index[label] = i
			points = append(points, domain.SeriesPoint{Label: label})
		}
		if sumY {
			if v, ok := asNumber(row[chart.YAxis]); ok {
				points[i].Value += v
			}
		} else {
			points[i].Value++
		}
	}
	return points
}

// bindPerRow emits one point per row in projector output order.
func bindPerRow(rows []domain.Row, chart domain.ChartConfig) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		v, ok := asNumber(row[chart.YAxis])
		if !ok {
			v = 0
		}
		points = append(points, domain.SeriesPoint{
			Label: axisLabel(row[chart.XAxis]),
			Value: v,
		})
	}
	return points
}

// bindScatter pairs numeric (x, y) values; rows that are not numeric
// on either axis are dropped from the series, not the whole chart.
func bindScatter(rows []domain.Row, chart domain.ChartConfig) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		x, okX := asNumber(row[chart.XAxis])
		y, okY := asNumber(row[chart.YAxis])
		if !okX || !okY {
			continue
		}
		points = append(points, domain.SeriesPoint{
			Label: strconv.FormatFloat(x, 'f', -1, 64),
			Value: y,
		})
	}
	return points
}

func axisLabel(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := asString(v); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
