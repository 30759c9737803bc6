package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "solmut.dev/pkg/solmut/internal/model"
)

// SimpleUI implements UI using cobra Command printing. It is the non-TTY
// fallback and the surface CI logs capture.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start announces the campaign size.
func (s *SimpleUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Printf("Testing %d mutants\n", total)

	return nil
}

// Progress prints one line per classified mutant.
func (s *SimpleUI) Progress(completed, total int, outcome m.MutantOutcome) {
	s.cmd.Printf("[%d/%d] %-8s %s\n", completed, total, outcome.Result, outcome.Mutant.String())
}

// DisplayCandidates renders a per-file table of candidate counts.
func (s *SimpleUI) DisplayCandidates(ctx context.Context, rows []CandidateRow, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := append([]CandidateRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Contract", "Mutants"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, row := range sorted {
		table.Append([]string{row.Path, fmt.Sprintf("%d", row.Count)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(sorted)),
		fmt.Sprintf("%d", total),
	})
	table.Render()

	s.cmd.Printf("\n%s", buffer.String())

	return nil
}

// DisplayReport prints the counts, the score and one line per mutant grouped
// by classification.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.JSONReport, outcomes []m.MutantOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	groups := map[m.MutationResult][]m.MutantOutcome{}
	for _, outcome := range outcomes {
		groups[outcome.Result] = append(groups[outcome.Result], outcome)
	}

	for _, result := range []m.MutationResult{m.ResultKilled, m.ResultSurvived, m.ResultInvalid, m.ResultSkipped} {
		listed := groups[result]
		if len(listed) == 0 {
			continue
		}

		s.cmd.Printf("\n%s mutants:\n", result)

		for _, outcome := range listed {
			s.cmd.Printf("  %s\n", outcome.Mutant.String())
		}
	}

	summary := report.Summary
	s.cmd.Printf("\nTotal: %d  Killed: %d  Survived: %d  Invalid: %d  Skipped: %d\n",
		summary.Total, summary.Killed, summary.Survived, summary.Invalid, summary.Skipped)
	s.cmd.Printf("Mutation score: %.2f%% (%.1fs)\n", summary.MutationScore, summary.DurationSecs)

	return nil
}

// Close is a no-op for SimpleUI.
func (s *SimpleUI) Close(ctx context.Context) {
	_ = ctx
}
