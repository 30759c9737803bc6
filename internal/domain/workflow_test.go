package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"solmut.dev/pkg/solmut/internal/adapter"
	"solmut.dev/pkg/solmut/internal/controller"
	m "solmut.dev/pkg/solmut/internal/model"
)

// recordingUI captures everything the workflow pushes at the front-end.
type recordingUI struct {
	started    bool
	total      int
	progressed int
	candidates []controller.CandidateRow
	report     m.JSONReport
	reported   bool
	closed     bool
}

func (u *recordingUI) Start(_ context.Context, total int) error {
	u.started = true
	u.total = total
	return nil
}

func (u *recordingUI) Progress(_, _ int, _ m.MutantOutcome) {
	u.progressed++
}

func (u *recordingUI) DisplayCandidates(_ context.Context, rows []controller.CandidateRow, _ int) error {
	u.candidates = rows
	return nil
}

func (u *recordingUI) DisplayReport(_ context.Context, report m.JSONReport, _ []m.MutantOutcome) error {
	u.report = report
	u.reported = true
	return nil
}

func (u *recordingUI) Close(_ context.Context) {
	u.closed = true
}

// newTestProject lays out a minimal Foundry project containing one mutable
// contract, one test contract and one library file.
func newTestProject(t *testing.T) (root m.Path, contract m.Path) {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foundry.toml"), []byte("[profile.default]\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test"), 0o750))

	contractPath := filepath.Join(dir, "src", "Adder.sol")
	require.NoError(t, os.WriteFile(contractPath, []byte(adderSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test", "Adder.t.sol"), []byte("contract AdderTest {}"), 0o644))

	return m.Path(dir), m.Path(contractPath)
}

func newTestWorkflow(parser adapter.SolidityParserAdapter, compiler adapter.CompilerAdapter, tests adapter.TestRunnerAdapter, ui controller.UI) Workflow {
	return NewWorkflow(adapter.NewLocalSourceFSAdapter(), parser, compiler, tests, adapter.NewJSONReportStore(), ui)
}

func runArgs(root m.Path) RunArgs {
	return RunArgs{
		Paths:       []m.Path{root},
		MutationDir: ".solmut-cache",
		ReportPath:  m.Path(filepath.Join(string(root), "report.json")),
		UseCache:    true,
		Threads:     1,
	}
}

func TestWorkflowRunEndToEnd(t *testing.T) {
	root, contract := newTestProject(t)

	source, err := os.ReadFile(string(contract))
	require.NoError(t, err)

	parser := &fakeParser{root: additionAST(t, string(source))}
	ui := &recordingUI{}

	workflow := newTestWorkflow(parser, okCompiler(), testsFailing(1), ui)
	require.NoError(t, workflow.Run(context.Background(), runArgs(root)))

	assert.True(t, ui.started)
	assert.Equal(t, 1, ui.total)
	assert.Equal(t, 1, ui.progressed)
	assert.True(t, ui.reported)
	assert.True(t, ui.closed)

	assert.Equal(t, 1, ui.report.Summary.Total)
	assert.Equal(t, 1, ui.report.Summary.Killed)
	assert.InDelta(t, 100.0, ui.report.Summary.MutationScore, 0.001)

	// The report landed on disk and the source is untouched.
	_, err = os.Stat(filepath.Join(string(root), "report.json"))
	require.NoError(t, err)

	restored, err := os.ReadFile(string(contract))
	require.NoError(t, err)
	assert.Equal(t, string(source), string(restored))

	// Cache artifacts were written for the build hash.
	entries, err := os.ReadDir(filepath.Join(string(root), ".solmut-cache"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestWorkflowSecondRunReplaysCache(t *testing.T) {
	root, contract := newTestProject(t)

	source, err := os.ReadFile(string(contract))
	require.NoError(t, err)

	parser := &fakeParser{root: additionAST(t, string(source))}

	builds := 0
	compiler := &fakeCompiler{build: func(context.Context) (adapter.BuildResult, error) {
		builds++
		return adapter.BuildResult{Hash: "stable", Ok: true}, nil
	}}

	first := newTestWorkflow(parser, compiler, testsFailing(1), &recordingUI{})
	require.NoError(t, first.Run(context.Background(), runArgs(root)))

	// One baseline build plus one mutant build.
	require.Equal(t, 2, builds)

	ui := &recordingUI{}
	second := newTestWorkflow(parser, compiler, testsFailing(1), ui)
	require.NoError(t, second.Run(context.Background(), runArgs(root)))

	// Only the baseline build this time; the classification replays.
	assert.Equal(t, 3, builds)
	assert.Zero(t, ui.total)
	assert.Equal(t, 1, ui.report.Summary.Killed)
}

func TestWorkflowClosesUIWhenRunFails(t *testing.T) {
	root, contract := newTestProject(t)

	source, err := os.ReadFile(string(contract))
	require.NoError(t, err)

	parser := &fakeParser{root: additionAST(t, string(source))}
	ui := &recordingUI{}

	// Baseline build succeeds; the mutant build hits an infrastructure failure.
	builds := 0
	compiler := &fakeCompiler{build: func(context.Context) (adapter.BuildResult, error) {
		builds++
		if builds > 1 {
			return adapter.BuildResult{}, errors.New("forge not found")
		}

		return adapter.BuildResult{Hash: "h", Ok: true}, nil
	}}

	workflow := newTestWorkflow(parser, compiler, testsFailing(1), ui)
	require.Error(t, workflow.Run(context.Background(), runArgs(root)))

	assert.True(t, ui.started)
	assert.False(t, ui.reported)
	assert.True(t, ui.closed)
}

func TestWorkflowSurvivedSpanSkipsOnNextRun(t *testing.T) {
	root, contract := newTestProject(t)

	source, err := os.ReadFile(string(contract))
	require.NoError(t, err)

	parser := &fakeParser{root: additionAST(t, string(source))}

	compiler := &fakeCompiler{build: func(context.Context) (adapter.BuildResult, error) {
		return adapter.BuildResult{Hash: "stable", Ok: true}, nil
	}}

	first := newTestWorkflow(parser, compiler, testsFailing(0), &recordingUI{})
	require.NoError(t, first.Run(context.Background(), runArgs(root)))

	// A fresh build hash invalidates mutants and results but the second run
	// still replays results through the same hash here, so instead prove the
	// survived span was persisted.
	handler := NewMutationHandler(contract, m.Path(filepath.Join(string(root), ".solmut-cache")), adapter.NewLocalSourceFSAdapter(), parser)
	spans, ok := handler.RetrieveSurvivedSpans("stable")
	require.True(t, ok)
	assert.Equal(t, 1, spans.Len())
}

func TestWorkflowBaselineMustCompile(t *testing.T) {
	root, _ := newTestProject(t)

	compiler := &fakeCompiler{build: func(context.Context) (adapter.BuildResult, error) {
		return adapter.BuildResult{Ok: false, Output: "ParserError"}, nil
	}}

	workflow := newTestWorkflow(&fakeParser{}, compiler, testsFailing(0), &recordingUI{})
	err := workflow.Run(context.Background(), runArgs(root))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not compile")
}

func TestWorkflowNoTargetsIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foundry.toml"), []byte(""), 0o644))

	workflow := newTestWorkflow(&fakeParser{}, okCompiler(), testsFailing(0), &recordingUI{})
	err := workflow.Run(context.Background(), runArgs(m.Path(dir)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Solidity contracts")
}

func TestWorkflowSkipsUnparsableContract(t *testing.T) {
	root, _ := newTestProject(t)

	// Parse failures scoped to a file skip it rather than aborting the run.
	parser := &fakeParser{err: adapter.ErrParse}
	ui := &recordingUI{}

	workflow := newTestWorkflow(parser, okCompiler(), testsFailing(0), ui)
	require.NoError(t, workflow.Run(context.Background(), runArgs(root)))

	assert.Zero(t, ui.total)
	assert.Zero(t, ui.report.Summary.Total)
}

func TestWorkflowListCountsCandidates(t *testing.T) {
	root, contract := newTestProject(t)

	source, err := os.ReadFile(string(contract))
	require.NoError(t, err)

	parser := &fakeParser{root: additionAST(t, string(source))}
	ui := &recordingUI{}

	workflow := newTestWorkflow(parser, okCompiler(), testsFailing(0), ui)
	require.NoError(t, workflow.List(context.Background(), ListArgs{Paths: []m.Path{root}}))

	require.Len(t, ui.candidates, 1)
	assert.Equal(t, string(contract), ui.candidates[0].Path)
	assert.Equal(t, 1, ui.candidates[0].Count)
}

func TestWorkflowListHonorsSurvivedSpanCache(t *testing.T) {
	root, contract := newTestProject(t)

	source, err := os.ReadFile(string(contract))
	require.NoError(t, err)

	parser := &fakeParser{root: additionAST(t, string(source))}

	compiler := &fakeCompiler{build: func(context.Context) (adapter.BuildResult, error) {
		return adapter.BuildResult{Hash: "stable", Ok: true}, nil
	}}

	// A span enclosing the whole file prunes every mutation point.
	cacheDir := m.Path(filepath.Join(string(root), ".solmut-cache"))
	handler := NewMutationHandler(contract, cacheDir, adapter.NewLocalSourceFSAdapter(), parser)
	spans := NewSurvivedSpans()
	spans.MarkSurvived(m.Span{Lo: 0, Hi: uint32(len(source))})
	require.NoError(t, handler.PersistSurvivedSpans("stable", spans))

	ui := &recordingUI{}
	workflow := newTestWorkflow(parser, compiler, testsFailing(0), ui)

	args := ListArgs{Paths: []m.Path{root}, MutationDir: ".solmut-cache", UseCache: true}
	require.NoError(t, workflow.List(context.Background(), args))

	require.Len(t, ui.candidates, 1)
	assert.Zero(t, ui.candidates[0].Count)
}

func TestWorkflowExcludePatterns(t *testing.T) {
	root, _ := newTestProject(t)

	ui := &recordingUI{}
	workflow := newTestWorkflow(&fakeParser{}, okCompiler(), testsFailing(0), ui)

	args := ListArgs{Paths: []m.Path{root}, Exclude: []string{`src/.*\.sol`}}
	require.NoError(t, workflow.List(context.Background(), args))
	assert.Empty(t, ui.candidates)

	err := workflow.List(context.Background(), ListArgs{Paths: []m.Path{root}, Exclude: []string{"["}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
