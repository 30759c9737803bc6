package domain

import (
	"path/filepath"
	"sort"
	"sync"

	m "solmut.dev/pkg/solmut/internal/model"
)

// MutationsSummary partitions classified mutants into four mutually exclusive
// lists and derives the mutation score. It is safe for concurrent use.
type MutationsSummary struct {
	mu       sync.Mutex
	dead     []m.Mutant
	survived []m.Mutant
	invalid  []m.Mutant
	skipped  []m.Mutant
}

// NewMutationsSummary creates an empty summary.
func NewMutationsSummary() *MutationsSummary {
	return &MutationsSummary{}
}

// AddDeadMutant records a mutant killed by the test suite.
func (s *MutationsSummary) AddDeadMutant(mutant m.Mutant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dead = append(s.dead, mutant)
}

// AddSurvivedMutant records a mutant every test passed against.
func (s *MutationsSummary) AddSurvivedMutant(mutant m.Mutant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.survived = append(s.survived, mutant)
}

// UpdateInvalidMutant records a mutant whose mutated source failed to compile.
func (s *MutationsSummary) UpdateInvalidMutant(mutant m.Mutant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalid = append(s.invalid, mutant)
}

// AddSkippedMutant records a mutant that was never executed.
func (s *MutationsSummary) AddSkippedMutant(mutant m.Mutant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.skipped = append(s.skipped, mutant)
}

// UpdateValidMutant classifies a compiled-and-executed mutant: dead when the
// test run reported at least one failure, survived otherwise. This is the
// single authoritative live/kill rule.
func (s *MutationsSummary) UpdateValidMutant(failedTests int, mutant m.Mutant) m.MutationResult {
	if failedTests >= 1 {
		s.AddDeadMutant(mutant)
		return m.ResultKilled
	}

	s.AddSurvivedMutant(mutant)

	return m.ResultSurvived
}

// Merge concatenates every list from other into s. Counts are invariant
// under merge order.
func (s *MutationsSummary) Merge(other *MutationsSummary) {
	if other == nil || other == s {
		return
	}

	other.mu.Lock()
	dead := append([]m.Mutant(nil), other.dead...)
	survived := append([]m.Mutant(nil), other.survived...)
	invalid := append([]m.Mutant(nil), other.invalid...)
	skipped := append([]m.Mutant(nil), other.skipped...)
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dead = append(s.dead, dead...)
	s.survived = append(s.survived, survived...)
	s.invalid = append(s.invalid, invalid...)
	s.skipped = append(s.skipped, skipped...)
}

// TotalDead returns the killed-mutant count.
func (s *MutationsSummary) TotalDead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.dead)
}

// TotalSurvived returns the survived-mutant count.
func (s *MutationsSummary) TotalSurvived() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.survived)
}

// TotalInvalid returns the invalid-mutant count.
func (s *MutationsSummary) TotalInvalid() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.invalid)
}

// TotalSkipped returns the skipped-mutant count.
func (s *MutationsSummary) TotalSkipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.skipped)
}

// TotalMutants returns the number of mutants across all four lists.
func (s *MutationsSummary) TotalMutants() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.dead) + len(s.survived) + len(s.invalid) + len(s.skipped)
}

// Dead returns a copy of the killed-mutant list.
func (s *MutationsSummary) Dead() []m.Mutant {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]m.Mutant(nil), s.dead...)
}

// Survived returns a copy of the survived-mutant list.
func (s *MutationsSummary) Survived() []m.Mutant {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]m.Mutant(nil), s.survived...)
}

// Invalid returns a copy of the invalid-mutant list.
func (s *MutationsSummary) Invalid() []m.Mutant {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]m.Mutant(nil), s.invalid...)
}

// Skipped returns a copy of the skipped-mutant list.
func (s *MutationsSummary) Skipped() []m.Mutant {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]m.Mutant(nil), s.skipped...)
}

// MutationScore returns dead/(dead+survived)*100, or 0.0 when no mutant was
// executed to completion.
func (s *MutationsSummary) MutationScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	denominator := len(s.dead) + len(s.survived)
	if denominator == 0 {
		return 0.0
	}

	return float64(len(s.dead)) / float64(denominator) * 100.0
}

// ToJSONOutput builds the machine-readable report, grouping survived mutants
// by the path of the file they originate from, relative to projectRoot.
func (s *MutationsSummary) ToJSONOutput(durationSecs float64, projectRoot m.Path) m.JSONReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	survived := make(map[string][]m.SurvivedMutantDetail)

	for _, mutant := range s.survived {
		rel := string(mutant.ContractPath)
		if r, err := filepath.Rel(string(projectRoot), rel); err == nil {
			rel = r
		}

		survived[rel] = append(survived[rel], m.SurvivedMutantDetail{
			Line:     mutant.Line,
			Column:   mutant.Column,
			Original: mutant.Original,
			Mutant:   mutant.Mutation,
		})
	}

	for _, details := range survived {
		sort.Slice(details, func(i, j int) bool {
			if details[i].Line != details[j].Line {
				return details[i].Line < details[j].Line
			}

			return details[i].Column < details[j].Column
		})
	}

	denominator := len(s.dead) + len(s.survived)
	score := 0.0

	if denominator > 0 {
		score = float64(len(s.dead)) / float64(denominator) * 100.0
	}

	return m.JSONReport{
		Summary: m.ReportSummary{
			Total:         len(s.dead) + len(s.survived) + len(s.invalid) + len(s.skipped),
			Killed:        len(s.dead),
			Survived:      len(s.survived),
			Invalid:       len(s.invalid),
			Skipped:       len(s.skipped),
			MutationScore: score,
			DurationSecs:  durationSecs,
		},
		SurvivedMutants: survived,
	}
}
