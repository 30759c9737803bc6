package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	m "solmut.dev/pkg/solmut/internal/model"
)

// JSONUI renders machine-readable output for scripting. Progress is silent;
// only the final documents are printed.
type JSONUI struct {
	cmd *cobra.Command
}

// NewJSONUI creates a new JSONUI.
func NewJSONUI(cmd *cobra.Command) *JSONUI {
	return &JSONUI{cmd: cmd}
}

// Start is silent in JSON mode.
func (j *JSONUI) Start(ctx context.Context, total int) error {
	_ = total
	return ctx.Err()
}

// Progress is silent in JSON mode.
func (j *JSONUI) Progress(_, _ int, _ m.MutantOutcome) {}

// jsonCandidates is the list-command document.
type jsonCandidates struct {
	Files []CandidateRow `json:"files"`
	Total int            `json:"total"`
}

// DisplayCandidates prints the per-file candidate counts as one JSON document.
func (j *JSONUI) DisplayCandidates(ctx context.Context, rows []CandidateRow, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return j.print(jsonCandidates{Files: rows, Total: total})
}

// DisplayReport prints the campaign report as one JSON document.
func (j *JSONUI) DisplayReport(ctx context.Context, report m.JSONReport, _ []m.MutantOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return j.print(report)
}

// Close is a no-op for JSONUI.
func (j *JSONUI) Close(ctx context.Context) {
	_ = ctx
}

func (j *JSONUI) print(value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	j.cmd.Println(string(payload))

	return nil
}
