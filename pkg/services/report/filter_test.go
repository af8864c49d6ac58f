package report

import (
	"testing"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditRecords() []domain.Record {
	severities := []string{"LOW", "MEDIUM", "LOW", "HIGH", "CRITICAL", "LOW", "MEDIUM", "HIGH"}
	records := make([]domain.Record, 0, len(severities))
	for i, s := range severities {
		records = append(records, domain.Record{
			"severity": s,
			"action":   "login",
			"resource": "github",
			"userId":   string(rune('a' + i)),
		})
	}
	return records
}

func TestEvaluate_EqualsCritical(t *testing.T) {
	records := auditRecords()

	filtered, err := Evaluate(records, []domain.ReportFilter{
		{Field: "severity", Operator: domain.OperatorEquals, Value: "CRITICAL"},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "CRITICAL", filtered[0]["severity"])
}

func TestEvaluate_EqualsIsCaseSensitive(t *testing.T) {
	filtered, err := Evaluate(auditRecords(), []domain.ReportFilter{
		{Field: "severity", Operator: domain.OperatorEquals, Value: "critical"},
	})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestEvaluate_EmptyFilterListPassesEverything(t *testing.T) {
	records := auditRecords()
	filtered, err := Evaluate(records, nil)
	require.NoError(t, err)
	assert.Equal(t, records, filtered)
}

func TestEvaluate_ConjunctionIsComposable(t *testing.T) {
	records := []domain.Record{
		{"tool": "Slack", "status": "ACTIVE", "riskScore": float64(20)},
		{"tool": "Slack", "status": "SUSPENDED", "riskScore": float64(80)},
		{"tool": "GitHub", "status": "ACTIVE", "riskScore": float64(75)},
		{"tool": "GitHub", "status": "ACTIVE", "riskScore": float64(10)},
	}
	f1 := []domain.ReportFilter{{Field: "status", Operator: domain.OperatorEquals, Value: "ACTIVE"}}
	f2 := []domain.ReportFilter{{Field: "riskScore", Operator: domain.OperatorGreaterThan, Value: float64(50)}}

	first, err := Evaluate(records, f1)
	require.NoError(t, err)
	chained, err := Evaluate(first, f2)
	require.NoError(t, err)

	combined, err := Evaluate(records, append(append([]domain.ReportFilter{}, f1...), f2...))
	require.NoError(t, err)

	assert.Equal(t, combined, chained)
	require.Len(t, chained, 1)
	assert.Equal(t, "GitHub", chained[0]["tool"])
}

func TestEvaluate_BetweenOnDates(t *testing.T) {
	records := []domain.Record{
		{"email": "in@corp.io", "lastLogin": "2024-01-15"},
		{"email": "edge-lo@corp.io", "lastLogin": "2024-01-01"},
		{"email": "edge-hi@corp.io", "lastLogin": "2024-01-31"},
		{"email": "out@corp.io", "lastLogin": "2024-02-01"},
	}

	filtered, err := Evaluate(records, []domain.ReportFilter{
		{Field: "lastLogin", Operator: domain.OperatorBetween, Value: []any{"2024-01-01", "2024-01-31"}},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 3)
	for _, rec := range filtered {
		assert.NotEqual(t, "out@corp.io", rec["email"])
	}
}

func TestEvaluate_ContainsOnArrays(t *testing.T) {
	records := []domain.Record{
		{"email": "a@corp.io", "permissions": []string{"read", "write"}},
		{"email": "b@corp.io", "permissions": []string{"Admin:All"}},
		{"email": "c@corp.io"},
	}

	filtered, err := Evaluate(records, []domain.ReportFilter{
		{Field: "permissions", Operator: domain.OperatorContains, Value: "admin"},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b@corp.io", filtered[0]["email"])
}

func TestEvaluate_InIsCaseInsensitive(t *testing.T) {
	filtered, err := Evaluate(auditRecords(), []domain.ReportFilter{
		{Field: "severity", Operator: domain.OperatorIn, Value: []any{"high", "Critical"}},
	})
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
}

func TestEvaluate_MissingFieldFailsClosed(t *testing.T) {
	records := []domain.Record{
		{"email": "a@corp.io"},
		{"email": "b@corp.io", "severity": "LOW"},
	}
	filtered, err := Evaluate(records, []domain.ReportFilter{
		{Field: "severity", Operator: domain.OperatorLessThan, Value: "MEDIUM"},
	})
	require.Error(t, err) // less_than is invalid on a string field
	assert.Nil(t, filtered)

	filtered, err = Evaluate(records, []domain.ReportFilter{
		{Field: "severity", Operator: domain.OperatorEquals, Value: "LOW"},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b@corp.io", filtered[0]["email"])
}

func TestEvaluate_UnknownFieldIsValidationError(t *testing.T) {
	_, err := Evaluate(auditRecords(), []domain.ReportFilter{
		{Field: "favoriteColor", Operator: domain.OperatorEquals, Value: "blue"},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestEvaluate_TypeMismatchRejectedBeforeEvaluation(t *testing.T) {
	_, err := Evaluate(auditRecords(), []domain.ReportFilter{
		{Field: "riskScore", Operator: domain.OperatorGreaterThan, Value: "not a number"},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestEvaluate_PreservesInputOrder(t *testing.T) {
	records := []domain.Record{
		{"userId": "1", "status": "ACTIVE"},
		{"userId": "2", "status": "EXIT"},
		{"userId": "3", "status": "ACTIVE"},
		{"userId": "4", "status": "ACTIVE"},
	}
	filtered, err := Evaluate(records, []domain.ReportFilter{
		{Field: "status", Operator: domain.OperatorEquals, Value: "ACTIVE"},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 3)
	assert.Equal(t, "1", filtered[0]["userId"])
	assert.Equal(t, "3", filtered[1]["userId"])
	assert.Equal(t, "4", filtered[2]["userId"])
}

func TestEvaluate_InOnBooleanFieldRejected(t *testing.T) {
	records := []domain.Record{{"email": "a@corp.io", "mfaEnabled": true}}

	_, err := Evaluate(records, []domain.ReportFilter{
		{Field: "mfaEnabled", Operator: domain.OperatorIn, Value: []any{true, false}},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "mfaEnabled")
}
