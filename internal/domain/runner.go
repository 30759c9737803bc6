package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"solmut.dev/pkg/solmut/internal/adapter"
	m "solmut.dev/pkg/solmut/internal/model"
	"solmut.dev/pkg/solmut/pkg"
)

// MutationUnit binds one contract's handler with its pending mutants and its
// survived-span tracker. Mutants of a unit always execute sequentially since
// mutation is an in-place rewrite of one file.
type MutationUnit struct {
	Handler *MutationHandler
	Spans   *SurvivedSpans
	Mutants []m.Mutant
}

// ProgressFunc receives a monotonically increasing completed count. Failures
// inside the reporter never abort the mutation run.
type ProgressFunc func(completed, total int, outcome m.MutantOutcome)

// ParallelMutationRunner drives mutants through apply, compile, test,
// classify, restore. Units are dispatched concurrently up to the thread
// bound, but the on-disk phase from apply to restore is exclusive: all
// units share one project build and test suite, so at most one mutant may
// be on disk at a time. Restoration is unconditional on every exit path.
type ParallelMutationRunner struct {
	compiler    adapter.CompilerAdapter
	tests       adapter.TestRunnerAdapter
	projectRoot m.Path
	threads     int
	progress    ProgressFunc
	spool       *pkg.Spool[m.MutantOutcome]

	// execMu guards the apply -> build -> test -> restore critical section.
	execMu sync.Mutex
}

// NewParallelMutationRunner constructs a runner. threads bounds concurrent
// units; spool and progress may be nil.
func NewParallelMutationRunner(
	compiler adapter.CompilerAdapter,
	tests adapter.TestRunnerAdapter,
	projectRoot m.Path,
	threads int,
	progress ProgressFunc,
	spool *pkg.Spool[m.MutantOutcome],
) *ParallelMutationRunner {
	if threads <= 0 {
		threads = 1
	}

	return &ParallelMutationRunner{
		compiler:    compiler,
		tests:       tests,
		projectRoot: projectRoot,
		threads:     threads,
		progress:    progress,
		spool:       spool,
	}
}

// Run evaluates every unit's mutants, feeding classifications into summary
// and each unit's span tracker. A single mutant failing to compile or killing
// tests is a normal outcome; only infrastructure failures abort.
func (r *ParallelMutationRunner) Run(ctx context.Context, units []*MutationUnit, summary *MutationsSummary) error {
	total := 0
	for _, unit := range units {
		total += len(unit.Mutants)
	}

	var (
		completedMu sync.Mutex
		completed   int
	)

	report := func(outcome m.MutantOutcome) {
		completedMu.Lock()
		completed++
		count := completed
		completedMu.Unlock()

		if r.spool != nil {
			if err := r.spool.Append(outcome); err != nil {
				slog.Error("failed to spool outcome", "mutant", outcome.Mutant.String(), "error", err)
			}
		}

		r.notify(count, total, outcome)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.threads)

	for _, unit := range units {
		unit := unit

		group.Go(func() error {
			return r.runUnit(groupCtx, unit, summary, report)
		})
	}

	return group.Wait()
}

// notify invokes the progress reporter, absorbing panics so a broken reporter
// cannot abort the run.
func (r *ParallelMutationRunner) notify(completed, total int, outcome m.MutantOutcome) {
	if r.progress == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("progress reporter panicked", "recovered", rec)
		}
	}()

	r.progress(completed, total, outcome)
}

// runUnit evaluates one contract's mutants strictly in order.
func (r *ParallelMutationRunner) runUnit(ctx context.Context, unit *MutationUnit, summary *MutationsSummary, report func(m.MutantOutcome)) error {
	for _, mutant := range unit.Mutants {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Spans marked survived earlier in this run make nested mutants
		// skippable even though generation already pruned the cached set.
		if unit.Spans != nil && unit.Spans.ShouldSkip(mutant.Span) {
			summary.AddSkippedMutant(mutant)
			report(m.MutantOutcome{Mutant: mutant, Result: m.ResultSkipped})

			continue
		}

		outcome, err := r.evaluateMutant(ctx, unit, mutant, summary)
		if err != nil {
			return err
		}

		report(outcome)
	}

	return nil
}

// evaluateMutant drives one mutant through apply -> compile -> test ->
// classify, restoring the original source before returning on every path.
func (r *ParallelMutationRunner) evaluateMutant(ctx context.Context, unit *MutationUnit, mutant m.Mutant, summary *MutationsSummary) (outcome m.MutantOutcome, err error) {
	handler := unit.Handler

	// Exactly one mutant may be on disk while forge builds and tests.
	// The restore defer below runs before this unlocks.
	r.execMu.Lock()
	defer r.execMu.Unlock()

	if err := ctx.Err(); err != nil {
		return m.MutantOutcome{}, err
	}

	if applyErr := handler.GenerateMutatedSolidity(mutant); applyErr != nil {
		// Best-effort restore even when the apply itself failed mid-write.
		if restoreErr := handler.RestoreOriginalSource(); restoreErr != nil {
			slog.Error("failed to restore source after apply error", "path", handler.ContractPath(), "error", restoreErr)
		}

		return m.MutantOutcome{}, fmt.Errorf("failed to apply mutant %s: %w", mutant.String(), applyErr)
	}

	defer func() {
		if restoreErr := handler.RestoreOriginalSource(); restoreErr != nil {
			slog.Error("failed to restore source", "path", handler.ContractPath(), "error", restoreErr)

			if err == nil {
				err = restoreErr
			}
		}
	}()

	build, buildErr := r.compiler.Build(ctx, r.projectRoot)
	if buildErr != nil {
		return m.MutantOutcome{}, fmt.Errorf("compiler invocation failed: %w", buildErr)
	}

	if !build.Ok {
		summary.UpdateInvalidMutant(mutant)
		return m.MutantOutcome{Mutant: mutant, Result: m.ResultInvalid}, nil
	}

	failed, testErr := r.tests.RunTests(ctx, r.projectRoot)
	if testErr != nil {
		if errors.Is(testErr, context.Canceled) {
			return m.MutantOutcome{}, testErr
		}

		return m.MutantOutcome{}, fmt.Errorf("test runner invocation failed: %w", testErr)
	}

	result := summary.UpdateValidMutant(failed, mutant)
	if result == m.ResultSurvived && unit.Spans != nil {
		unit.Spans.MarkSurvived(mutant.Span)
	}

	return m.MutantOutcome{Mutant: mutant, Result: result, FailedTests: failed}, nil
}
