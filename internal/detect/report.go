package detect

import "math"

// Report summarizes a set of issues by severity bucket.
type Report struct {
	TotalIssues int     `json:"total_issues"`
	Critical    int     `json:"critical"`
	High        int     `json:"high"`
	Medium      int     `json:"medium"`
	Low         int     `json:"low"`
	Issues      []Issue `json:"issues"`
}

// TechDebt holds the deterministic debt metrics derived from an issue list.
type TechDebt struct {
	EstimatedHours       float64 `json:"estimated_hours"`
	EstimatedDays        float64 `json:"estimated_days"`
	MaintainabilityScore int     `json:"maintainability_score"`
	Grade                string  `json:"grade"`
	Recommendation       string  `json:"recommendation"`
}

// GenerateReport counts issues per severity and carries the full list.
func GenerateReport(issues []Issue) Report {
	r := Report{Issues: issues, TotalIssues: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			r.Critical++
		case SeverityHigh:
			r.High++
		case SeverityMedium:
			r.Medium++
		case SeverityLow:
			r.Low++
		}
	}
	return r
}

// CalculateTechDebt derives debt metrics from the issue list alone,
// using the fixed per-severity hour and penalty tables.
func CalculateTechDebt(issues []Issue) TechDebt {
	var hours float64
	penalty := 0
	for _, issue := range issues {
		hours += issue.Severity.hoursToFix()
		penalty += issue.Severity.scorePenalty()
	}

	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	grade := GradeForScore(score)
	return TechDebt{
		EstimatedHours:       round1(hours),
		EstimatedDays:        round1(hours / 8),
		MaintainabilityScore: score,
		Grade:                grade,
		Recommendation:       recommendationForGrade(grade),
	}
}

// GradeForScore is the single source of truth for the grade thresholds.
// Inclusive lower bounds: 90 A, 80 B, 70 C, 60 D, else F.
func GradeForScore(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func recommendationForGrade(grade string) string {
	switch grade {
	case "A":
		return "Excellent! Code is modern and maintainable."
	case "B":
		return "Good code quality. Minor improvements recommended."
	case "C":
		return "Moderate technical debt. Consider refactoring."
	case "D":
		return "Significant technical debt. Refactoring recommended."
	case "F":
		return "Critical technical debt. Immediate modernization required."
	default:
		return "Unknown grade"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
