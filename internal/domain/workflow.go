package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"solmut.dev/pkg/solmut/internal/adapter"
	"solmut.dev/pkg/solmut/internal/controller"
	m "solmut.dev/pkg/solmut/internal/model"
	"solmut.dev/pkg/solmut/pkg"
)

// RunArgs configures a full mutation campaign.
type RunArgs struct {
	Paths       []m.Path
	Exclude     []string
	Operators   []m.MutationKind
	MutationDir m.Path
	ReportPath  m.Path
	UseCache    bool
	Threads     int
}

// ListArgs configures candidate enumeration without execution.
type ListArgs struct {
	Paths       []m.Path
	Exclude     []string
	Operators   []m.MutationKind
	MutationDir m.Path
	UseCache    bool
}

// Workflow is the top-level entry point behind the CLI commands.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
}

type workflow struct {
	fs       adapter.SourceFSAdapter
	parser   adapter.SolidityParserAdapter
	compiler adapter.CompilerAdapter
	tests    adapter.TestRunnerAdapter
	reports  adapter.ReportStore
	ui       controller.UI
}

// NewWorkflow wires the workflow with its collaborators.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	parser adapter.SolidityParserAdapter,
	compiler adapter.CompilerAdapter,
	tests adapter.TestRunnerAdapter,
	reports adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		fs:       fs,
		parser:   parser,
		compiler: compiler,
		tests:    tests,
		reports:  reports,
		ui:       ui,
	}
}

// Run executes the full campaign: discover targets, build the baseline,
// generate (or replay) mutants per file, evaluate them in parallel, persist
// caches and emit the report.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	kinds, err := ResolveMutationKinds(args.Operators)
	if err != nil {
		return err
	}

	targets, err := w.discoverTargets(args.Paths, args.Exclude)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		return errors.New("no Solidity contracts matched the given paths")
	}

	projectRoot, err := w.fs.FindProjectRoot(targets[0])
	if err != nil {
		return err
	}

	baseline, err := w.compiler.Build(ctx, projectRoot)
	if err != nil {
		return err
	}

	if !baseline.Ok {
		return fmt.Errorf("project does not compile before mutation:\n%s", baseline.Output)
	}

	mutationDir := w.resolveMutationDir(projectRoot, args.MutationDir)

	started := time.Now()
	summary := NewMutationsSummary()
	replayed := map[m.Path][]m.MutantOutcome{}

	var units []*MutationUnit

	for _, target := range targets {
		unit, unitErr := w.prepareUnit(ctx, target, mutationDir, baseline.Hash, kinds, args.UseCache, summary, replayed)
		if unitErr != nil {
			if errors.Is(unitErr, adapter.ErrParse) {
				slog.Warn("skipping unparsable contract", "path", target, "error", unitErr)
				continue
			}

			return unitErr
		}

		units = append(units, unit)
	}

	pending := 0
	for _, unit := range units {
		pending += len(unit.Mutants)
	}

	if err := w.ui.Start(ctx, pending); err != nil {
		return err
	}

	// Close on every exit path so an interactive UI releases the terminal
	// even when the run fails partway.
	defer w.ui.Close(ctx)

	spool, err := pkg.NewSpool[m.MutantOutcome]()
	if err != nil {
		return err
	}

	defer func() {
		_ = spool.Close()
	}()

	runner := NewParallelMutationRunner(w.compiler, w.tests, projectRoot, args.Threads, w.ui.Progress, spool)

	runErr := runner.Run(ctx, units, summary)

	// Persist what we learned even when the run was cut short, so the next
	// invocation resumes instead of restarting.
	outcomes := w.collectOutcomes(spool, replayed)

	for _, unit := range units {
		path := unit.Handler.ContractPath()

		if err := unit.Handler.PersistCachedResults(baseline.Hash, outcomes[path]); err != nil {
			return errors.Join(runErr, err)
		}

		if err := unit.Handler.PersistSurvivedSpans(baseline.Hash, unit.Spans); err != nil {
			return errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return runErr
	}

	report := summary.ToJSONOutput(time.Since(started).Seconds(), projectRoot)
	if err := w.reports.SaveReport(args.ReportPath, report); err != nil {
		return err
	}

	flat := make([]m.MutantOutcome, 0)
	for _, target := range targets {
		flat = append(flat, outcomes[target]...)
	}

	if err := w.ui.DisplayReport(ctx, report, flat); err != nil {
		slog.Warn("failed to render report", "error", err)
	}

	return nil
}

// List enumerates candidates per contract without executing any. Survived-span
// caches from earlier runs prune candidates the same way a run would, when a
// build hash can be established.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	kinds, err := ResolveMutationKinds(args.Operators)
	if err != nil {
		return err
	}

	targets, err := w.discoverTargets(args.Paths, args.Exclude)
	if err != nil {
		return err
	}

	mutationDir, buildHash := "", ""

	if args.UseCache && len(targets) > 0 {
		if projectRoot, rootErr := w.fs.FindProjectRoot(targets[0]); rootErr == nil {
			if build, buildErr := w.compiler.Build(ctx, projectRoot); buildErr == nil && build.Ok {
				mutationDir = string(w.resolveMutationDir(projectRoot, args.MutationDir))
				buildHash = build.Hash
			}
		}
	}

	rows := make([]controller.CandidateRow, 0, len(targets))
	total := 0

	for _, target := range targets {
		handler := NewMutationHandler(target, m.Path(mutationDir), w.fs, w.parser)
		if err := handler.ReadSourceContract(); err != nil {
			return err
		}

		var skip SkipFunc

		if buildHash != "" {
			if spans, ok := handler.RetrieveSurvivedSpans(buildHash); ok {
				skip = spans.ShouldSkip
			}
		}

		if err := handler.GenerateAST(ctx, kinds, skip, true); err != nil {
			if errors.Is(err, adapter.ErrParse) {
				slog.Warn("skipping unparsable contract", "path", target, "error", err)
				continue
			}

			return err
		}

		rows = append(rows, controller.CandidateRow{Path: string(target), Count: len(handler.Mutations)})
		total += len(handler.Mutations)
	}

	return w.ui.DisplayCandidates(ctx, rows, total)
}

// resolveMutationDir anchors a relative cache directory at the project root so
// artifacts stay with the project regardless of the invocation directory.
func (w *workflow) resolveMutationDir(projectRoot, dir m.Path) m.Path {
	if filepath.IsAbs(string(dir)) {
		return dir
	}

	return w.fs.JoinPath(string(projectRoot), string(dir))
}

// prepareUnit builds the mutation unit for one contract: read source, load or
// generate the mutant list, replay cached results, and hand back the pending
// remainder.
func (w *workflow) prepareUnit(
	ctx context.Context,
	target m.Path,
	mutationDir m.Path,
	buildHash string,
	kinds []m.MutationKind,
	useCache bool,
	summary *MutationsSummary,
	replayed map[m.Path][]m.MutantOutcome,
) (*MutationUnit, error) {
	handler := NewMutationHandler(target, mutationDir, w.fs, w.parser)

	if err := handler.ReadSourceContract(); err != nil {
		return nil, err
	}

	spans := NewSurvivedSpans()

	if useCache {
		if cached, ok := handler.RetrieveSurvivedSpans(buildHash); ok {
			spans = cached
		}
	}

	usedMutantCache := false

	if useCache {
		if cached, ok := handler.RetrieveCachedMutants(buildHash); ok {
			handler.Mutations = cached
			usedMutantCache = true
		}
	}

	if !usedMutantCache {
		if err := handler.GenerateAST(ctx, kinds, spans.ShouldSkip, false); err != nil {
			return nil, err
		}

		if useCache {
			if err := handler.PersistCachedMutants(buildHash); err != nil {
				return nil, err
			}
		}
	}

	pending := handler.Mutations

	if useCache {
		if outcomes, ok := handler.RetrieveCachedMutantResults(buildHash); ok {
			pending = w.replayOutcomes(handler.Mutations, outcomes, summary, spans, replayed, target)
		}
	}

	return &MutationUnit{Handler: handler, Spans: spans, Mutants: pending}, nil
}

// mutantKey identifies a mutant within one contract for cache replay.
func mutantKey(mutant m.Mutant) string {
	return fmt.Sprintf("%d:%d:%s:%s", mutant.Span.Lo, mutant.Span.Hi, mutant.Kind, mutant.Mutation)
}

// replayOutcomes feeds cached classifications straight into the summary and
// returns the mutants that still need execution.
func (w *workflow) replayOutcomes(
	mutants []m.Mutant,
	cached []m.MutantOutcome,
	summary *MutationsSummary,
	spans *SurvivedSpans,
	replayed map[m.Path][]m.MutantOutcome,
	target m.Path,
) []m.Mutant {
	known := make(map[string]m.MutantOutcome, len(cached))
	for _, outcome := range cached {
		known[mutantKey(outcome.Mutant)] = outcome
	}

	var pending []m.Mutant

	for _, mutant := range mutants {
		outcome, ok := known[mutantKey(mutant)]
		if !ok {
			pending = append(pending, mutant)
			continue
		}

		switch outcome.Result {
		case m.ResultKilled:
			summary.AddDeadMutant(mutant)
		case m.ResultSurvived:
			summary.AddSurvivedMutant(mutant)
			spans.MarkSurvived(mutant.Span)
		case m.ResultInvalid:
			summary.UpdateInvalidMutant(mutant)
		case m.ResultSkipped:
			summary.AddSkippedMutant(mutant)
		}

		replayed[target] = append(replayed[target], outcome)
	}

	if len(replayed[target]) > 0 {
		slog.Info("replayed cached mutant results", "path", target, "count", len(replayed[target]))
	}

	return pending
}

// collectOutcomes groups spooled outcomes by contract, appending them to any
// replayed cache hits.
func (w *workflow) collectOutcomes(spool *pkg.Spool[m.MutantOutcome], replayed map[m.Path][]m.MutantOutcome) map[m.Path][]m.MutantOutcome {
	grouped := make(map[m.Path][]m.MutantOutcome, len(replayed))
	for path, outcomes := range replayed {
		grouped[path] = append(grouped[path], outcomes...)
	}

	err := spool.Range(func(_ uint64, outcome m.MutantOutcome) error {
		grouped[outcome.Mutant.ContractPath] = append(grouped[outcome.Mutant.ContractPath], outcome)
		return nil
	})
	if err != nil {
		slog.Warn("failed to read outcome spool", "error", err)
	}

	return grouped
}

// discoverTargets expands the path arguments into the sorted set of mutable
// Solidity sources, excluding tests, scripts and user-provided patterns.
func (w *workflow) discoverTargets(paths []m.Path, exclude []string) ([]m.Path, error) {
	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	excludes := make([]*regexp.Regexp, 0, len(exclude))

	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	seen := make(map[m.Path]struct{})

	var targets []m.Path

	for _, root := range paths {
		abs, err := w.fs.AbsPath(root)
		if err != nil {
			return nil, err
		}

		info, err := w.fs.FileInfo(abs)
		if err != nil {
			return nil, fmt.Errorf("path error: %w", err)
		}

		if !info.IsDir() {
			w.addTarget(abs, excludes, seen, &targets)
			continue
		}

		walkErr := w.fs.Walk(abs, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			w.addTarget(m.Path(path), excludes, seen, &targets)

			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	return targets, nil
}

func (w *workflow) addTarget(path m.Path, excludes []*regexp.Regexp, seen map[m.Path]struct{}, targets *[]m.Path) {
	name := string(path)

	if !strings.HasSuffix(name, ".sol") {
		return
	}

	// Foundry convention: tests and deploy scripts are not mutation targets.
	if strings.HasSuffix(name, ".t.sol") || strings.HasSuffix(name, ".s.sol") {
		return
	}

	for _, re := range excludes {
		if re.MatchString(name) {
			return
		}
	}

	if _, ok := seen[path]; ok {
		return
	}

	seen[path] = struct{}{}
	*targets = append(*targets, path)
}
