package report

import (
	"testing"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightFixture() (domain.ReportSummary, []domain.Row) {
	summary := domain.ReportSummary{
		TotalRecords: 4,
		GeneratedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	rows := []domain.Row{
		{"severity": "CRITICAL", "status": "ACTIVE"},
		{"status": "EXIT", "riskScore": float64(85)},
		{"category": "SECURITY", "lastLogin": "2024-01-01"},
		{"status": "ACTIVE", "groups": []string{"Engineering"}},
	}
	return summary, rows
}

func TestGenerateInsights_RulesFireIndependently(t *testing.T) {
	summary, rows := insightFixture()
	insights, recommendations := GenerateInsights(summary, rows)

	require.Len(t, insights, 5)
	assert.Contains(t, insights[0], "1 critical-severity events")
	assert.Contains(t, insights[1], "1 exited or deprovisioned users")
	assert.Contains(t, insights[2], "1 security-category events")
	assert.Contains(t, insights[3], "1 users exceed the high-risk score threshold")
	assert.Contains(t, insights[4], "not logged in for more than 90 days")

	require.Len(t, recommendations, 4)
	assert.Contains(t, recommendations[0], "critical-severity")
	assert.Contains(t, recommendations[1], "Revoke remaining access")
}

func TestGenerateInsights_Deterministic(t *testing.T) {
	summary, rows := insightFixture()

	firstInsights, firstRecs := GenerateInsights(summary, rows)
	secondInsights, secondRecs := GenerateInsights(summary, rows)

	assert.Equal(t, firstInsights, secondInsights)
	assert.Equal(t, firstRecs, secondRecs)
}

func TestGenerateInsights_QuietDataProducesNothing(t *testing.T) {
	summary := domain.ReportSummary{TotalRecords: 1, GeneratedAt: time.Now().UTC()}
	rows := []domain.Row{{"status": "ACTIVE", "severity": "LOW"}}

	insights, recommendations := GenerateInsights(summary, rows)
	assert.Empty(t, insights)
	assert.Empty(t, recommendations)
}

func TestGenerateInsights_PrivilegedShareRule(t *testing.T) {
	summary := domain.ReportSummary{TotalRecords: 2, GeneratedAt: time.Now().UTC()}
	rows := []domain.Row{
		{"groups": []string{"Platform Admins"}},
		{"groups": []string{"Engineering"}},
	}

	insights, recommendations := GenerateInsights(summary, rows)
	require.Len(t, insights, 1)
	assert.Contains(t, insights[0], "administrative privileges")
	require.Len(t, recommendations, 1)
	assert.Contains(t, recommendations[0], "privileged access")
}
