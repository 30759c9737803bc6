package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "solmut.dev/pkg/solmut/internal/model"
)

func newCapturedJSONUI() (*JSONUI, *bytes.Buffer) {
	buffer := &bytes.Buffer{}

	cmd := &cobra.Command{}
	cmd.SetOut(buffer)
	cmd.SetErr(buffer)

	return NewJSONUI(cmd), buffer
}

func TestJSONUIProgressIsSilent(t *testing.T) {
	ui, buffer := newCapturedJSONUI()

	require.NoError(t, ui.Start(context.Background(), 5))
	ui.Progress(1, 5, sampleOutcome(m.ResultKilled))
	ui.Close(context.Background())

	assert.Empty(t, buffer.String())
}

func TestJSONUIDisplayCandidates(t *testing.T) {
	ui, buffer := newCapturedJSONUI()

	rows := []CandidateRow{{Path: "src/Adder.sol", Count: 3}}
	require.NoError(t, ui.DisplayCandidates(context.Background(), rows, 3))

	var decoded jsonCandidates
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, rows, decoded.Files)
	assert.Equal(t, 3, decoded.Total)
}

func TestJSONUIDisplayReport(t *testing.T) {
	ui, buffer := newCapturedJSONUI()

	report := m.JSONReport{
		Summary: m.ReportSummary{Total: 2, Killed: 1, Survived: 1, MutationScore: 50.0},
		SurvivedMutants: map[string][]m.SurvivedMutantDetail{
			"src/Adder.sol": {{Line: 3, Column: 12, Original: "+", Mutant: "-"}},
		},
	}

	require.NoError(t, ui.DisplayReport(context.Background(), report, nil))

	var decoded m.JSONReport
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, report, decoded)
}
