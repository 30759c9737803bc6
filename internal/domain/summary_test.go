package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	m "solmut.dev/pkg/solmut/internal/model"
)

func testMutant(id int) m.Mutant {
	return m.Mutant{
		Span:         m.Span{Lo: uint32(id * 10), Hi: uint32(id*10 + 1)},
		Original:     "+",
		Mutation:     "-",
		Kind:         m.MutationArithmetic,
		ContractPath: m.Path(fmt.Sprintf("src/C%d.sol", id)),
	}
}

func TestMutationsSummary_PartitionInvariant(t *testing.T) {
	summary := NewMutationsSummary()

	summary.AddDeadMutant(testMutant(1))
	summary.AddDeadMutant(testMutant(2))
	summary.AddSurvivedMutant(testMutant(3))
	summary.UpdateInvalidMutant(testMutant(4))
	summary.AddSkippedMutant(testMutant(5))

	require.Equal(t, 2, summary.TotalDead())
	require.Equal(t, 1, summary.TotalSurvived())
	require.Equal(t, 1, summary.TotalInvalid())
	require.Equal(t, 1, summary.TotalSkipped())
	require.Equal(t, summary.TotalDead()+summary.TotalSurvived()+summary.TotalInvalid()+summary.TotalSkipped(), summary.TotalMutants())
}

func TestMutationsSummary_ScoreBoundaries(t *testing.T) {
	summary := NewMutationsSummary()
	require.Equal(t, 0.0, summary.MutationScore())

	summary.AddDeadMutant(testMutant(1))
	summary.AddDeadMutant(testMutant(2))
	summary.AddDeadMutant(testMutant(3))
	summary.AddSurvivedMutant(testMutant(4))

	require.Equal(t, 75.0, summary.MutationScore())
}

func TestMutationsSummary_ScoreExcludesInvalidAndSkipped(t *testing.T) {
	summary := NewMutationsSummary()
	summary.UpdateInvalidMutant(testMutant(1))
	summary.AddSkippedMutant(testMutant(2))

	require.Equal(t, 0.0, summary.MutationScore())
}

func TestMutationsSummary_ClassificationRule(t *testing.T) {
	tests := []struct {
		name   string
		failed int
		want   m.MutationResult
	}{
		{name: "zero failures survives", failed: 0, want: m.ResultSurvived},
		{name: "one failure kills", failed: 1, want: m.ResultKilled},
		{name: "many failures kill", failed: 7, want: m.ResultKilled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			summary := NewMutationsSummary()
			result := summary.UpdateValidMutant(tc.failed, testMutant(1))

			require.Equal(t, tc.want, result)

			if tc.want == m.ResultKilled {
				require.Equal(t, 1, summary.TotalDead())
				require.Equal(t, 0, summary.TotalSurvived())
			} else {
				require.Equal(t, 0, summary.TotalDead())
				require.Equal(t, 1, summary.TotalSurvived())
			}
		})
	}
}

func TestMutationsSummary_MergeOrderIndependentCounts(t *testing.T) {
	build := func() (*MutationsSummary, *MutationsSummary, *MutationsSummary) {
		s1 := NewMutationsSummary()
		s1.AddDeadMutant(testMutant(1))
		s1.AddSkippedMutant(testMutant(2))

		s2 := NewMutationsSummary()
		s2.AddSurvivedMutant(testMutant(3))

		s3 := NewMutationsSummary()
		s3.UpdateInvalidMutant(testMutant(4))
		s3.AddDeadMutant(testMutant(5))

		return s1, s2, s3
	}

	s1, s2, s3 := build()
	s1.Merge(s2)
	s1.Merge(s3)

	r1, r2, r3 := build()
	r3.Merge(r1)
	r3.Merge(r2)

	require.Equal(t, s1.TotalDead(), r3.TotalDead())
	require.Equal(t, s1.TotalSurvived(), r3.TotalSurvived())
	require.Equal(t, s1.TotalInvalid(), r3.TotalInvalid())
	require.Equal(t, s1.TotalSkipped(), r3.TotalSkipped())
	require.Equal(t, 5, r3.TotalMutants())
}

func TestMutationsSummary_MergeWithSelfIsNoop(t *testing.T) {
	summary := NewMutationsSummary()
	summary.AddDeadMutant(testMutant(1))

	summary.Merge(summary)

	require.Equal(t, 1, summary.TotalMutants())
}

func TestMutationsSummary_ToJSONOutput(t *testing.T) {
	summary := NewMutationsSummary()

	survivor := m.Mutant{
		Span:         m.Span{Lo: 10, Hi: 11},
		Original:     "+",
		Mutation:     "-",
		Kind:         m.MutationArithmetic,
		Line:         4,
		Column:       9,
		ContractPath: "/proj/src/Adder.sol",
	}

	summary.AddDeadMutant(testMutant(1))
	summary.AddSurvivedMutant(survivor)
	summary.UpdateInvalidMutant(testMutant(3))

	report := summary.ToJSONOutput(1.5, "/proj")

	require.Equal(t, 3, report.Summary.Total)
	require.Equal(t, 1, report.Summary.Killed)
	require.Equal(t, 1, report.Summary.Survived)
	require.Equal(t, 1, report.Summary.Invalid)
	require.Equal(t, 0, report.Summary.Skipped)
	require.Equal(t, 50.0, report.Summary.MutationScore)
	require.Equal(t, 1.5, report.Summary.DurationSecs)

	details, ok := report.SurvivedMutants["src/Adder.sol"]
	require.True(t, ok)
	require.Len(t, details, 1)
	require.Equal(t, m.SurvivedMutantDetail{Line: 4, Column: 9, Original: "+", Mutant: "-"}, details[0])
}
