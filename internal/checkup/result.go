// Package checkup implements the sequential smoke-test suite that exercises
// a running Finze backend and classifies each check as PASS, WARN, or FAIL.
package checkup

import "time"

// Status classifies the outcome of a single check.
type Status string

// Check outcomes, from best to worst.
const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result records one check outcome. Results accumulate in run order and feed
// the final summary; the runner itself never persists them. Data may carry
// the raw endpoint payload behind a result; the built-in checks leave it nil
// and the history journal does not store it.
type Result struct {
	Time    time.Time `json:"timestamp"`
	Data    any       `json:"data,omitempty"`
	Name    string    `json:"test"`
	Status  Status    `json:"status"`
	Message string    `json:"message"`
}
