package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
)

// rowStats are the aggregate counts the insight rules inspect.
type rowStats struct {
	Total          int
	Critical       int
	ExitedAccess   int
	SecurityEvents int
	HighRisk       int
	StaleLogins    int
	Privileged     int
}

// highRiskThreshold mirrors the roster sync's risk scoring scale.
const highRiskThreshold = 70

// staleLoginAge is the age past which a last login counts as stale.
const staleLoginAge = 90 * 24 * time.Hour

var adminKeywords = []string{"admin", "administrator", "root", "superuser", "privileged", "sudo"}

// insightRule couples a predicate over the aggregate counts with fixed
// insight and (optionally) recommendation templates. Rules are
// independent: every matching rule fires, in table order, so the
// output is deterministic for identical input.
type insightRule struct {
	Match          func(s rowStats) bool
	Insight        func(s rowStats) string
	Recommendation func(s rowStats) string
}

var insightRules = []insightRule{
	{
		Match: func(s rowStats) bool { return s.Critical > 0 },
		Insight: func(s rowStats) string {
			return fmt.Sprintf("%d critical-severity events are present in this report", s.Critical)
		},
		Recommendation: func(s rowStats) string {
			return fmt.Sprintf("Investigate the %d critical-severity events before the next access review", s.Critical)
		},
	},
	{
		Match: func(s rowStats) bool { return s.ExitedAccess > 0 },
		Insight: func(s rowStats) string {
			return fmt.Sprintf("%d exited or deprovisioned users still appear with access records", s.ExitedAccess)
		},
		Recommendation: func(s rowStats) string {
			return fmt.Sprintf("Revoke remaining access for %d exited users", s.ExitedAccess)
		},
	},
	{
		Match: func(s rowStats) bool { return s.SecurityEvents > 0 },
		Insight: func(s rowStats) string {
			return fmt.Sprintf("%d security-category events were recorded in the reporting window", s.SecurityEvents)
		},
	},
	{
		Match: func(s rowStats) bool { return s.HighRisk > 0 },
		Insight: func(s rowStats) string {
			return fmt.Sprintf("%d users exceed the high-risk score threshold", s.HighRisk)
		},
		Recommendation: func(s rowStats) string {
			return fmt.Sprintf("Review and remediate %d high-risk user accounts", s.HighRisk)
		},
	},
	{
		Match: func(s rowStats) bool { return s.StaleLogins > 0 },
		Insight: func(s rowStats) string {
			return fmt.Sprintf("%d users have not logged in for more than 90 days", s.StaleLogins)
		},
		Recommendation: func(s rowStats) string {
			return fmt.Sprintf("Disable or remove %d accounts inactive for 90+ days", s.StaleLogins)
		},
	},
	{
		Match: func(s rowStats) bool { return s.Total > 0 && s.Privileged*10 > s.Total },
		Insight: func(s rowStats) string {
			return fmt.Sprintf("%d of %d users hold administrative privileges", s.Privileged, s.Total)
		},
		Recommendation: func(s rowStats) string {
			return "Review privileged access assignments; more than 10% of users are administrators"
		},
	},
}

// GenerateInsights runs the rule table against the projected rows and
// returns human-readable insight and recommendation strings. Given
// identical rows the output is identical, including order.
func GenerateInsights(summary domain.ReportSummary, rows []domain.Row) (insights, recommendations []string) {
	stats := collectStats(summary, rows)

	for _, rule := range insightRules {
		if !rule.Match(stats) {
			continue
		}
		insights = append(insights, rule.Insight(stats))
		if rule.Recommendation != nil {
			recommendations = append(recommendations, rule.Recommendation(stats))
		}
	}
	return insights, recommendations
}

func collectStats(summary domain.ReportSummary, rows []domain.Row) rowStats {
	stats := rowStats{Total: len(rows)}
	now := summary.GeneratedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	for _, row := range rows {
		if s, ok := asString(row["severity"]); ok && strings.EqualFold(s, "CRITICAL") {
			stats.Critical++
		}
		if s, ok := asString(row["status"]); ok {
			switch strings.ToUpper(s) {
			case "EXIT", "EXITED", "DEPROVISIONED":
				stats.ExitedAccess++
			}
		}
		if c, ok := asString(row["category"]); ok && strings.EqualFold(c, "SECURITY") {
			stats.SecurityEvents++
		}
		if v, ok := asNumber(row["riskScore"]); ok && v >= highRiskThreshold {
			stats.HighRisk++
		}
		if t, ok := asTime(row["lastLogin"]); ok && now.Sub(t) > staleLoginAge {
			stats.StaleLogins++
		}
		if isPrivileged(row) {
			stats.Privileged++
		}
	}
	return stats
}

func isPrivileged(row domain.Row) bool {
	for _, key := range []string{"permissions", "groups", "role"} {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		var candidates []string
		if elems, ok := asStrings(v); ok {
			candidates = elems
		} else if s, ok := asString(v); ok {
			candidates = []string{s}
		}
		for _, c := range candidates {
			lower := strings.ToLower(c)
			for _, kw := range adminKeywords {
				if strings.Contains(lower, kw) {
					return true
				}
			}
		}
	}
	return false
}
