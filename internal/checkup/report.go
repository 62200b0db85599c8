package checkup

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/finze-app/finze-pulse/internal/cli"
)

// Verdict is the overall backend status label derived from the result counts.
type Verdict string

// Verdicts, from best to worst.
const (
	VerdictExcellent Verdict = "EXCELLENT"
	VerdictGood      Verdict = "GOOD"
	VerdictPartial   Verdict = "PARTIAL"
	VerdictCritical  Verdict = "CRITICAL"
)

// Description returns the one-line explanation shown next to the verdict.
func (v Verdict) Description() string {
	switch v {
	case VerdictExcellent:
		return "All core features working!"
	case VerdictGood:
		return "Core features work, some optional services unavailable"
	case VerdictPartial:
		return "Most features work, some issues detected"
	default:
		return "Multiple failures detected"
	}
}

func (v Verdict) icon() string {
	switch v {
	case VerdictExcellent:
		return "🎉"
	case VerdictGood:
		return "🟡"
	case VerdictPartial:
		return "🟠"
	default:
		return "🔴"
	}
}

// FeatureStatus reports the state of one user-facing feature, derived from
// the checks that exercise it.
type FeatureStatus struct {
	Feature string `json:"feature"`
	Status  Status `json:"status"`
}

// Summary aggregates a completed run.
type Summary struct {
	Verdict     Verdict         `json:"overall_status"`
	Features    []FeatureStatus `json:"features"`
	Total       int             `json:"total_tests"`
	Passed      int             `json:"passed"`
	Warnings    int             `json:"warnings"`
	Failed      int             `json:"failed"`
	SuccessRate float64         `json:"success_rate"`
}

// Ok reports whether the run should exit zero.
func (s Summary) Ok() bool {
	return s.Failed == 0
}

// Summarize derives the aggregate verdict and feature table from recorded
// results.
func Summarize(results []Result) Summary {
	summary := Summary{
		Total:    len(results),
		Features: featureStatuses(results),
	}
	for _, result := range results {
		switch result.Status {
		case StatusPass:
			summary.Passed++
		case StatusWarn:
			summary.Warnings++
		case StatusFail:
			summary.Failed++
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Passed) / float64(summary.Total) * 100
	}

	switch {
	case summary.Failed == 0 && summary.Warnings <= 2:
		summary.Verdict = VerdictExcellent
	case summary.Failed == 0:
		summary.Verdict = VerdictGood
	case summary.Failed <= 2:
		summary.Verdict = VerdictPartial
	default:
		summary.Verdict = VerdictCritical
	}
	return summary
}

// featureRules map check-name substrings to user-facing feature labels. The
// first matching keyword claims a result; rule order decides ties like
// "AI Categorization" vs the bare "Categories".
var featureRules = []struct {
	keyword string
	feature string
}{
	{keyword: "AI Categorization", feature: "AI Categorization"},
	{keyword: "Categories", feature: "Category Management"},
	{keyword: "Health Check", feature: "System Health"},
	{keyword: "Spending Analysis", feature: "AI Insights"},
	{keyword: "Speech Service", feature: "Voice Processing"},
	{keyword: "User Expenses", feature: "Database Operations"},
}

// featureStatuses folds results into per-feature statuses. Features appear
// in first-seen order; when several checks feed one feature, the last
// recorded status wins, so an overall check overrides its per-case entries.
func featureStatuses(results []Result) []FeatureStatus {
	index := make(map[string]int)
	features := make([]FeatureStatus, 0, len(featureRules))

	for _, result := range results {
		for _, rule := range featureRules {
			if !strings.Contains(result.Name, rule.keyword) {
				continue
			}
			if i, ok := index[rule.feature]; ok {
				features[i].Status = result.Status
			} else {
				index[rule.feature] = len(features)
				features = append(features, FeatureStatus{Feature: rule.feature, Status: result.Status})
			}
			break
		}
	}
	return features
}

// endpointListing is the fixed API surface printed at the end of a run,
// including the two endpoints the suite cannot exercise without fixtures.
var endpointListing = []string{
	"GET  /api/health                 - System status",
	"GET  /api/categories             - Expense categories",
	"POST /api/categorize             - AI expense categorization",
	"POST /api/categorize-batch       - Batch AI categorization",
	"POST /api/upload-receipt         - Receipt scanning (Gemini AI)",
	"GET  /api/expenses/<user_id>     - User expense history",
	"POST /api/ai/analyze-spending    - AI financial analysis",
	"POST /api/speech/speech-to-text  - Voice to text (Sarvam AI)",
}

// WriteSummary renders the final report: the count box, the verdict line,
// the feature table, and the endpoint listing.
func WriteSummary(w io.Writer, summary Summary) {
	counts := fmt.Sprintf("%s PASSED:   %2d/%d\n", cli.SuccessIcon, summary.Passed, summary.Total) +
		fmt.Sprintf("%s  WARNINGS: %2d/%d\n", cli.WarningIcon, summary.Warnings, summary.Total) +
		fmt.Sprintf("%s FAILED:   %2d/%d", cli.ErrorIcon, summary.Failed, summary.Total)

	writeOut(w, "\n%s\n", cli.RenderBox("🧪 Finze Backend Test Summary", counts))
	writeOut(w, "%s BACKEND STATUS: %s - %s\n", summary.Verdict.icon(), summary.Verdict, summary.Verdict.Description())

	if len(summary.Features) > 0 {
		writeOut(w, "\n💡 AVAILABLE FEATURES:\n")
		for _, feature := range summary.Features {
			writeOut(w, "   %s %s\n", statusIcon(feature.Status), feature.Feature)
		}
	}

	writeOut(w, "\n🔗 API ENDPOINTS:\n")
	for _, endpoint := range endpointListing {
		writeOut(w, "   %s %s\n", cli.SuccessIcon, endpoint)
	}
}

func writeOut(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		slog.Warn("Failed to write summary output", "error", err)
	}
}
