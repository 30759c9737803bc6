package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	m "solmut.dev/pkg/solmut/internal/model"
)

// TestRunnerAdapter abstracts test execution. The runner only needs the
// failed-test count per invocation.
type TestRunnerAdapter interface {
	// RunTests executes the project's test suite and returns how many tests
	// failed. An error means the runner itself could not execute, not that
	// tests failed.
	RunTests(ctx context.Context, projectRoot m.Path) (int, error)
}

// forge prints a summary line like "Ran 12 tests ... 2 failed".
var failedTestsRe = regexp.MustCompile(`(\d+) failed`)

// ForgeTestRunnerAdapter executes `forge test` with a per-invocation timeout.
type ForgeTestRunnerAdapter struct {
	binary  string
	timeout time.Duration
}

// NewForgeTestRunnerAdapter constructs a ForgeTestRunnerAdapter.
func NewForgeTestRunnerAdapter(timeout time.Duration) *ForgeTestRunnerAdapter {
	return &ForgeTestRunnerAdapter{binary: "forge", timeout: timeout}
}

// RunTests runs the suite, parsing forge's summary for the failed count. A
// non-zero exit without a parsable summary still counts as one failure: the
// suite did not come back green.
func (a *ForgeTestRunnerAdapter) RunTests(ctx context.Context, projectRoot m.Path) (int, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, a.binary, "test")
	cmd.Dir = string(projectRoot)

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	runErr := cmd.Run()

	failed := parseFailedCount(combined.Bytes())

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return 0, fmt.Errorf("failed to invoke forge test: %w", runErr)
		}

		if failed == 0 {
			// Timeout or crash before a summary was printed.
			failed = 1
		}

		slog.Debug("forge test reported failures", "root", projectRoot, "failed", failed)
	}

	return failed, nil
}

func parseFailedCount(output []byte) int {
	total := 0

	for _, match := range failedTestsRe.FindAllSubmatch(output, -1) {
		n, err := strconv.Atoi(string(match[1]))
		if err != nil {
			continue
		}

		total += n
	}

	return total
}
