package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/finze-app/finze-pulse/internal/checkup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeCmdFlags(t *testing.T) {
	cmd := smokeCmd()

	for flag, def := range map[string]string{
		"base-url":    "",
		"user":        "",
		"wait":        "0s",
		"record":      "false",
		"no-progress": "false",
		"json":        "false",
	} {
		f := cmd.Flag(flag)
		require.NotNil(t, f, "flag %s should exist", flag)
		assert.Equal(t, def, f.DefValue, "flag %s default", flag)
	}
}

func TestRootSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, subcmd := range rootCmd.Commands() {
		names[subcmd.Name()] = true
	}

	for _, want := range []string{"smoke", "probe", "store", "creds", "history", "version"} {
		assert.True(t, names[want], "%s subcommand should exist", want)
	}
}

func TestWriteJSONReport(t *testing.T) {
	results := []checkup.Result{
		{Time: time.Now(), Name: "Health Check", Status: checkup.StatusPass, Message: "3 services healthy"},
		{Time: time.Now(), Name: "Categories API", Status: checkup.StatusFail, Message: "HTTP 500"},
	}
	summary := checkup.Summarize(results)

	var buf bytes.Buffer
	err := writeJSONReport(&buf, summary, results)
	require.ErrorIs(t, err, errChecksFailed, "a failing summary should still exit non-zero")

	var report struct {
		Summary checkup.Summary  `json:"summary"`
		Results []checkup.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, checkup.VerdictPartial, report.Summary.Verdict)
	assert.Len(t, report.Results, 2)
}

func TestWriteJSONReportAllPassing(t *testing.T) {
	results := []checkup.Result{
		{Time: time.Now(), Name: "Health Check", Status: checkup.StatusPass, Message: "3 services healthy"},
	}

	var buf bytes.Buffer
	err := writeJSONReport(&buf, checkup.Summarize(results), results)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"overall_status"`)
}
