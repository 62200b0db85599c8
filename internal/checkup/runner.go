package checkup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/finze-app/finze-pulse/internal/finze"
	"github.com/schollz/progressbar/v3"
)

// Check names. The feature table in the summary matches on substrings of
// these, so they must stay in sync with the rules in report.go.
const (
	checkHealth     = "Health Check"
	checkCategories = "Categories API"
	checkBatch      = "Batch Categorization"
	checkExpenses   = "User Expenses"
	checkAnalysis   = "AI Spending Analysis"
	checkSpeech     = "Speech Service"
)

const (
	// healthyMinimum is how many subsystems must report healthy before the
	// backend counts as up.
	healthyMinimum = 3

	// speechService is the health-map key for the voice pipeline.
	speechService = "sarvam_speech"

	// Accuracy thresholds for the overall categorization verdict, in percent.
	passAccuracy = 80.0
	warnAccuracy = 60.0
)

// Options configures a Runner. Zero fields fall back to the fixed defaults.
type Options struct {
	Writer             io.Writer
	UserID             string
	Cases              []CategorizationCase
	ExpectedCategories []string
	ShowProgress       bool
}

// Runner executes the smoke-test suite sequentially against one backend.
// It is not safe for concurrent use.
type Runner struct {
	api     API
	writer  io.Writer
	opts    Options
	results []Result
	health  *finze.HealthReport
}

// NewRunner creates a runner for the given backend surface.
func NewRunner(api API, opts Options) *Runner {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if len(opts.Cases) == 0 {
		opts.Cases = DefaultCategorizationCases()
	}
	if len(opts.ExpectedCategories) == 0 {
		opts.ExpectedCategories = ExpectedCategories()
	}
	return &Runner{
		api:     api,
		writer:  opts.Writer,
		opts:    opts,
		results: make([]Result, 0),
	}
}

// Results returns a copy of the recorded results in run order.
func (r *Runner) Results() []Result {
	results := make([]Result, len(r.results))
	copy(results, r.results)
	return results
}

// Run executes the full suite in order. Individual check failures are
// recorded as results, never returned; the only errors Run reports are an
// unreachable backend and context cancellation.
func (r *Runner) Run(ctx context.Context) error {
	r.printf("%s\n", cli.FormatTitle("Starting Finze backend checkup..."))

	r.section(cli.ChartIcon + " Testing Basic Connectivity...")
	if report := r.CheckHealth(ctx); report == nil {
		return fmt.Errorf("health check failed: %w", common.ErrBackendUnreachable)
	}

	steps := []struct {
		run     func(context.Context)
		section string
	}{
		{section: "🎯 Testing Core Features...", run: r.CheckCategories},
		{run: r.CheckCategorization},
		{run: r.CheckBatchCategorization},
		{section: "📚 Testing Data Management...", run: r.CheckUserExpenses},
		{section: "🤖 Testing AI Services...", run: r.CheckSpendingAnalysis},
		{run: r.CheckSpeechService},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if step.section != "" {
			r.section(step.section)
		}
		step.run(ctx)
	}

	return nil
}

// CheckHealth verifies the status endpoint and reports how many subsystems
// are healthy. The parsed report is returned for reuse and cached so the
// speech check does not have to refetch it; nil means the backend was
// unreachable.
func (r *Runner) CheckHealth(ctx context.Context) *finze.HealthReport {
	report, err := r.api.Health(ctx)
	if err != nil {
		var statusErr *finze.StatusError
		if errors.As(err, &statusErr) {
			r.record(checkHealth, StatusFail, "HTTP %d", statusErr.Code)
		} else {
			r.record(checkHealth, StatusFail, "Connection error: %v", err)
		}
		return nil
	}

	var healthy, failed []string
	for name, svc := range report.Services {
		if svc.Healthy() {
			healthy = append(healthy, name)
		} else {
			failed = append(failed, name)
		}
	}
	sort.Strings(healthy)
	sort.Strings(failed)

	if len(healthy) >= healthyMinimum {
		r.record(checkHealth, StatusPass, "%d services healthy: %s", len(healthy), strings.Join(healthy, ", "))
		if len(failed) > 0 {
			r.record(checkHealth+" - Warning", StatusWarn, "Some services unavailable: %s", strings.Join(failed, ", "))
		}
	} else {
		r.record(checkHealth, StatusFail, "Only %d services healthy", len(healthy))
	}

	r.health = report
	return report
}

// CheckCategories verifies the expected category names are all served.
func (r *Runner) CheckCategories(ctx context.Context) {
	categories, err := r.api.Categories(ctx)
	if err != nil {
		r.record(checkCategories, StatusFail, "Error: %v", err)
		return
	}

	found := 0
	for _, want := range r.opts.ExpectedCategories {
		for _, got := range categories {
			if got == want {
				found++
				break
			}
		}
	}

	if found == len(r.opts.ExpectedCategories) {
		r.record(checkCategories, StatusPass, "All %d categories available", len(categories))
	} else {
		r.record(checkCategories, StatusWarn, "Found %d/%d expected categories", found, len(r.opts.ExpectedCategories))
	}
}

// CheckCategorization sends each fixed case to the categorization endpoint
// and scores overall accuracy. A wrong category is a WARN for that case, not
// a FAIL; only transport errors fail individual cases.
func (r *Runner) CheckCategorization(ctx context.Context) {
	cases := r.opts.Cases
	if len(cases) == 0 {
		return
	}

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = r.newCaseBar(len(cases))
	}

	passed := 0
	for i, tc := range cases {
		name := fmt.Sprintf("AI Categorization #%d", i+1)
		result, err := r.api.Categorize(ctx, finze.CategorizeRequest{
			Description: tc.Description,
			Amount:      tc.Amount,
		})

		if bar != nil {
			if clearErr := bar.Clear(); clearErr != nil {
				slog.Warn("Failed to clear progress bar", "error", clearErr)
			}
		}

		switch {
		case err != nil:
			r.record(name, StatusFail, "Error: %v", err)
		case result.Category == tc.Expected:
			passed++
			r.record(name, StatusPass, "'%s' → %s (%.2f)", tc.Description, result.Category, result.Confidence)
		default:
			r.record(name, StatusWarn, "'%s' → %s (expected %s)", tc.Description, result.Category, tc.Expected)
		}

		if bar != nil {
			if addErr := bar.Add(1); addErr != nil {
				slog.Warn("Failed to update progress bar", "error", addErr)
			}
		}
	}

	accuracy := float64(passed) / float64(len(cases)) * 100
	switch {
	case accuracy >= passAccuracy:
		r.record("AI Categorization Overall", StatusPass, "%d/%d correct (%.1f%% accuracy)", passed, len(cases), accuracy)
	case accuracy >= warnAccuracy:
		r.record("AI Categorization Overall", StatusWarn, "%d/%d correct (%.1f%% accuracy)", passed, len(cases), accuracy)
	default:
		r.record("AI Categorization Overall", StatusFail, "%d/%d correct (%.1f%% accuracy)", passed, len(cases), accuracy)
	}
}

// CheckBatchCategorization passes only when the backend returns one result
// per submitted expense and every result carries a category.
func (r *Runner) CheckBatchCategorization(ctx context.Context) {
	batch := defaultBatchExpenses()
	result, err := r.api.CategorizeBatch(ctx, batch)
	if err != nil {
		r.record(checkBatch, StatusFail, "Error: %v", err)
		return
	}

	if len(result.Results) != len(batch) {
		r.record(checkBatch, StatusFail, "Expected %d results, got %d", len(batch), len(result.Results))
		return
	}

	categorized := 0
	for _, item := range result.Results {
		if item.Category != "" {
			categorized++
		}
	}
	if categorized == len(result.Results) {
		r.record(checkBatch, StatusPass, "%d/%d expenses categorized", categorized, len(result.Results))
	} else {
		r.record(checkBatch, StatusFail, "%d/%d expenses categorized", categorized, len(result.Results))
	}
}

// CheckUserExpenses passes when the history endpoint answers at all; the
// content does not matter here.
func (r *Runner) CheckUserExpenses(ctx context.Context) {
	history, err := r.api.UserExpenses(ctx, r.opts.UserID)
	if err != nil {
		r.record(checkExpenses, StatusFail, "Error: %v", err)
		return
	}
	r.record(checkExpenses, StatusPass, "Retrieved %d expenses for user", len(history.Expenses))
}

// CheckSpendingAnalysis submits the fixed sample expenses and checks whether
// the AI produced a financial health score or fell back to basic results.
func (r *Runner) CheckSpendingAnalysis(ctx context.Context) {
	analysis, err := r.api.AnalyzeSpending(ctx, defaultAnalysisSamples())
	if err != nil {
		r.record(checkAnalysis, StatusFail, "Error: %v", err)
		return
	}

	if analysis.HasHealthScore() {
		r.record(checkAnalysis, StatusPass, "AI analysis completed with insights")
	} else {
		r.record(checkAnalysis, StatusWarn, "AI analysis returned basic results")
	}
}

// CheckSpeechService reads the speech subsystem's entry out of the health
// map. Audio upload itself is not exercised; availability is the signal.
func (r *Runner) CheckSpeechService(ctx context.Context) {
	report := r.health
	if report == nil {
		var err error
		report, err = r.api.Health(ctx)
		if err != nil {
			r.record(checkSpeech, StatusFail, "Could not check speech service status")
			return
		}
	}

	if report.Service(speechService).Healthy() {
		r.record(checkSpeech, StatusPass, "Sarvam AI Speech service available")
	} else {
		r.record(checkSpeech, StatusWarn, "Speech service not available")
	}
}

func (r *Runner) record(name string, status Status, format string, args ...any) {
	result := Result{
		Time:    time.Now(),
		Name:    name,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
	r.results = append(r.results, result)
	r.printf("%s %s: %s\n", statusIcon(status), result.Name, result.Message)
}

func (r *Runner) section(title string) {
	r.printf("\n%s\n", title)
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.writer, format, args...); err != nil {
		slog.Warn("Failed to write check output", "error", err)
	}
}

func (r *Runner) newCaseBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Scoring categorization cases...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
}

func statusIcon(status Status) string {
	switch status {
	case StatusPass:
		return cli.SuccessIcon
	case StatusFail:
		return cli.ErrorIcon
	default:
		return cli.WarningIcon
	}
}
