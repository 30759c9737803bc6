// Package controller provides output front-ends for mutation campaigns.
package controller

import (
	"context"

	m "solmut.dev/pkg/solmut/internal/model"
)

// CandidateRow is one file's candidate-mutant count for the list view.
type CandidateRow struct {
	Path  string `json:"path"`
	Count int    `json:"mutants"`
}

// UI is the reporting surface of a campaign. Implementations can print plain
// text or drive an interactive terminal; failures inside the UI must never
// abort the run that feeds it.
type UI interface {
	// Start is called once before mutants begin executing.
	Start(ctx context.Context, total int) error

	// Progress is called after each mutant is classified with the
	// monotonically increasing completed count.
	Progress(completed, total int, outcome m.MutantOutcome)

	// DisplayCandidates renders the per-file candidate counts (list command).
	DisplayCandidates(ctx context.Context, rows []CandidateRow, total int) error

	// DisplayReport renders the final summary and the per-mutant listing.
	DisplayReport(ctx context.Context, report m.JSONReport, outcomes []m.MutantOutcome) error

	// Close releases any terminal state.
	Close(ctx context.Context)
}
