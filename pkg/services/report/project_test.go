package report

import (
	"testing"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_DirectProjection(t *testing.T) {
	records := []domain.Record{
		{"email": "a@corp.io", "tool": "Slack", "role": "member"},
		{"email": "b@corp.io", "tool": "GitHub"},
	}
	columns := []domain.ReportColumn{
		{Key: "email", Label: "Email", Type: domain.FieldTypeString},
		{Key: "role", Label: "Role", Type: domain.FieldTypeString},
	}

	rows, err := Project(records, columns)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a@corp.io", rows[0]["email"])
	assert.Equal(t, "member", rows[0]["role"])
	assert.Equal(t, "b@corp.io", rows[1]["email"])
	assert.Nil(t, rows[1]["role"])
}

func TestProject_CountGroupsByRemainingColumns(t *testing.T) {
	records := []domain.Record{
		{"tool": "Slack", "userId": "u1"},
		{"tool": "Slack", "userId": "u2"},
		{"tool": "GitHub", "userId": "u3"},
		{"tool": "Slack", "userId": "u4"},
		{"tool": "GitHub", "userId": "u5"},
	}
	columns := []domain.ReportColumn{
		{Key: "tool", Label: "Tool", Type: domain.FieldTypeString},
		{Key: "userId", Label: "Users", Type: domain.FieldTypeString, Aggregation: domain.AggregationCount},
	}

	rows, err := Project(records, columns)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.Row{"tool": "Slack", "userId": 3}, rows[0])
	assert.Equal(t, domain.Row{"tool": "GitHub", "userId": 2}, rows[1])
}

func TestProject_SumAndAverageExcludeNonNumeric(t *testing.T) {
	records := []domain.Record{
		{"department": "eng", "riskScore": float64(5)},
		{"department": "eng", "riskScore": "n/a"},
		{"department": "eng", "riskScore": float64(15)},
	}

	sumRows, err := Project(records, []domain.ReportColumn{
		{Key: "department", Type: domain.FieldTypeString},
		{Key: "riskScore", Type: domain.FieldTypeNumber, Aggregation: domain.AggregationSum},
	})
	require.NoError(t, err)
	require.Len(t, sumRows, 1)
	assert.Equal(t, float64(20), sumRows[0]["riskScore"])

	avgRows, err := Project(records, []domain.ReportColumn{
		{Key: "department", Type: domain.FieldTypeString},
		{Key: "riskScore", Type: domain.FieldTypeNumber, Aggregation: domain.AggregationAverage},
	})
	require.NoError(t, err)
	require.Len(t, avgRows, 1)
	assert.Equal(t, float64(10), avgRows[0]["riskScore"])
}

func TestProject_MinMaxOverDates(t *testing.T) {
	records := []domain.Record{
		{"tool": "Slack", "lastLogin": "2024-03-01"},
		{"tool": "Slack", "lastLogin": "2024-01-15"},
		{"tool": "Slack", "lastLogin": "not a date"},
	}
	rows, err := Project(records, []domain.ReportColumn{
		{Key: "tool", Type: domain.FieldTypeString},
		{Key: "lastLogin", Type: domain.FieldTypeDate, Aggregation: domain.AggregationMin},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	min, ok := rows[0]["lastLogin"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), min)
}

func TestProject_EmptyBucketYieldsNilExtremum(t *testing.T) {
	records := []domain.Record{
		{"tool": "Slack", "riskScore": "n/a"},
		{"tool": "Slack"},
	}
	rows, err := Project(records, []domain.ReportColumn{
		{Key: "tool", Type: domain.FieldTypeString},
		{Key: "riskScore", Type: domain.FieldTypeNumber, Aggregation: domain.AggregationMax},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["riskScore"])
}

func TestProject_BucketsInFirstEncounterOrder(t *testing.T) {
	records := []domain.Record{
		{"department": "sales", "riskScore": float64(1)},
		{"department": "eng", "riskScore": float64(2)},
		{"department": "hr", "riskScore": float64(3)},
		{"department": "eng", "riskScore": float64(4)},
	}
	rows, err := Project(records, []domain.ReportColumn{
		{Key: "department", Type: domain.FieldTypeString},
		{Key: "riskScore", Type: domain.FieldTypeNumber, Aggregation: domain.AggregationSum},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "sales", rows[0]["department"])
	assert.Equal(t, "eng", rows[1]["department"])
	assert.Equal(t, "hr", rows[2]["department"])
	assert.Equal(t, float64(6), rows[1]["riskScore"])
}

func TestProject_AggregationOnNonNumericColumnRejected(t *testing.T) {
	_, err := Project(nil, []domain.ReportColumn{
		{Key: "tool", Type: domain.FieldTypeString},
		{Key: "email", Type: domain.FieldTypeString, Aggregation: domain.AggregationSum},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestProject_GroupKeysKeepValueTypesApart(t *testing.T) {
	records := []domain.Record{
		{"tool": "5", "email": "a@corp.io"},
		{"tool": 5, "email": "b@corp.io"},
		{"tool": "5", "email": "c@corp.io"},
	}

	rows, err := Project(records, []domain.ReportColumn{
		{Key: "tool", Type: domain.FieldTypeString},
		{Key: "email", Type: domain.FieldTypeString, Aggregation: domain.AggregationCount},
	})
	require.NoError(t, err)

	// The string "5" and the number 5 render identically but must not
	// share a bucket.
	require.Len(t, rows, 2)
	assert.Equal(t, "5", rows[0]["tool"])
	assert.Equal(t, 2, rows[0]["email"])
	assert.Equal(t, 5, rows[1]["tool"])
	assert.Equal(t, 1, rows[1]["email"])
}
