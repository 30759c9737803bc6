package model

// MutationResult is the terminal classification of a mutant.
type MutationResult string

// Terminal mutant classifications.
const (
	// ResultKilled means the mutated build ran the test suite with at least
	// one failing test.
	ResultKilled MutationResult = "killed"
	// ResultSurvived means the mutated build compiled and every test passed.
	ResultSurvived MutationResult = "survived"
	// ResultInvalid means the mutated source failed to compile.
	ResultInvalid MutationResult = "invalid"
	// ResultSkipped means the mutant was never executed, typically because an
	// enclosing span is already known to survive.
	ResultSkipped MutationResult = "skipped"
)

// MutantOutcome pairs a mutant with its classification and the test-outcome
// evidence the classification was derived from.
type MutantOutcome struct {
	Mutant      Mutant         `json:"mutant"`
	Result      MutationResult `json:"result"`
	FailedTests int            `json:"failed_tests"`
}
