package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "solmut.dev/pkg/solmut/internal/model"
)

var (
	killedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	invalidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	skippedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// TUI implements UI as an interactive progress view.
type TUI struct {
	output  io.Writer
	plain   *SimpleUI
	program *tea.Program
	done    sync.WaitGroup
}

// NewTUI creates a TUI writing to output; plain renders the final tables once
// the interactive phase ends.
func NewTUI(output io.Writer, plain *SimpleUI) *TUI {
	return &TUI{output: output, plain: plain}
}

type outcomeMsg struct {
	completed int
	total     int
	outcome   m.MutantOutcome
}

type campaignDoneMsg struct{}

// Start launches the progress program in the background.
func (t *TUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newCampaignModel(total)
	t.program = tea.NewProgram(model, tea.WithOutput(t.output))

	t.done.Add(1)

	go func() {
		defer t.done.Done()

		if _, err := t.program.Run(); err != nil {
			fmt.Fprintf(t.output, "progress view error: %v\n", err)
		}
	}()

	return nil
}

// Progress forwards one classified mutant to the running program.
func (t *TUI) Progress(completed, total int, outcome m.MutantOutcome) {
	if t.program == nil {
		return
	}

	t.program.Send(outcomeMsg{completed: completed, total: total, outcome: outcome})
}

// DisplayCandidates defers to the plain renderer.
func (t *TUI) DisplayCandidates(ctx context.Context, rows []CandidateRow, total int) error {
	return t.plain.DisplayCandidates(ctx, rows, total)
}

// DisplayReport stops the progress view and prints the final report plainly.
func (t *TUI) DisplayReport(ctx context.Context, report m.JSONReport, outcomes []m.MutantOutcome) error {
	t.Close(ctx)

	return t.plain.DisplayReport(ctx, report, outcomes)
}

// Close shuts down the progress program, waiting for its final frame.
func (t *TUI) Close(ctx context.Context) {
	_ = ctx

	if t.program == nil {
		return
	}

	t.program.Send(campaignDoneMsg{})
	t.done.Wait()
	t.program = nil
}

// campaignModel is the bubbletea model of a running campaign.
type campaignModel struct {
	bar       progress.Model
	total     int
	completed int
	killed    int
	survived  int
	invalid   int
	skipped   int
	last      string
	width     int
}

func newCampaignModel(total int) campaignModel {
	return campaignModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
		width: 80,
	}
}

func (c campaignModel) Init() tea.Cmd {
	return nil
}

func (c campaignModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.bar.Width = msg.Width - 8

		return c, nil
	case outcomeMsg:
		c.completed = msg.completed
		c.total = msg.total
		c.last = msg.outcome.Mutant.String()

		switch msg.outcome.Result {
		case m.ResultKilled:
			c.killed++
		case m.ResultSurvived:
			c.survived++
		case m.ResultInvalid:
			c.invalid++
		case m.ResultSkipped:
			c.skipped++
		}

		return c, nil
	case campaignDoneMsg:
		return c, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return c, tea.Quit
		}
	}

	return c, nil
}

func (c campaignModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("solmut mutation testing"))
	b.WriteString("\n\n")

	ratio := 0.0
	if c.total > 0 {
		ratio = float64(c.completed) / float64(c.total)
	}

	b.WriteString(c.bar.ViewAs(ratio))
	fmt.Fprintf(&b, "\n\n  %d/%d  %s %d  %s %d  %s %d  %s %d\n",
		c.completed, c.total,
		killedStyle.Render("killed"), c.killed,
		survivedStyle.Render("survived"), c.survived,
		invalidStyle.Render("invalid"), c.invalid,
		skippedStyle.Render("skipped"), c.skipped,
	)

	if c.last != "" {
		fmt.Fprintf(&b, "  last: %s\n", c.last)
	}

	return b.String()
}
