package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/finze-app/finze-pulse/internal/config"
	"github.com/finze-app/finze-pulse/internal/ledger"
)

// resolveTarget loads the HTTP target and applies flag overrides.
// Flags beat config, config beats environment, environment beats defaults.
func resolveTarget(baseURL, userID string) (*config.Target, error) {
	target, err := config.LoadTarget()
	if err != nil {
		return nil, err
	}

	if baseURL != "" {
		target.BaseURL = baseURL
	}
	if userID != "" {
		target.UserID = userID
	}

	if err := target.Validate(); err != nil {
		return nil, err
	}
	return target, nil
}

// resolveStore loads the Firestore settings and applies flag overrides. The
// store commands refuse to run without a user id; unlike the HTTP checks
// there is no safe synthetic default for direct collection access.
func resolveStore(credFile, projectID, userID string) (*config.Store, error) {
	store, err := config.LoadStore()
	if err != nil {
		return nil, err
	}

	if credFile != "" {
		store.CredentialsFile = config.ExpandPath(credFile)
	}
	if projectID != "" {
		store.ProjectID = projectID
	}
	if userID != "" {
		store.UserID = userID
	}

	if store.UserID == "" {
		return nil, fmt.Errorf("%w: store user id (--user, store.user_id, or PULSE_STORE_USER_ID)", common.ErrMissingConfig)
	}

	if err := store.Validate(); err != nil {
		return nil, err
	}
	return store, nil
}

// indentJSON pretty-prints a raw JSON payload for terminal display; payloads
// that do not parse come back verbatim.
func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "   ", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// printLedger renders fetched entries the way the backend's own debug
// tooling does: one line per record, then the aggregate totals.
func printLedger(w io.Writer, entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No records stored for this user."))
		return
	}

	for _, entry := range entries {
		fmt.Fprintf(w, "   - %s: ₹%.1f (%s)\n", entry.DisplayTitle(), entry.Amount, entry.DisplayCategory())
	}

	summary := ledger.Summarize(entries)
	fmt.Fprintf(w, "\n💰 Total Expenses: ₹%.1f\n", summary.TotalExpenses)
	fmt.Fprintf(w, "💵 Total Income: ₹%.1f\n", summary.TotalIncome)

	rate, err := summary.SavingsRate()
	if errors.Is(err, ledger.ErrNoIncome) {
		fmt.Fprintln(w, "📊 Savings Rate: n/a (no income recorded)")
		return
	}
	fmt.Fprintf(w, "📊 Savings Rate: %.2f%%\n", rate)
}
