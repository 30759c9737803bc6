package model

// ReportSummary holds the aggregate counts of a mutation campaign.
type ReportSummary struct {
	Total         int     `json:"total"`
	Killed        int     `json:"killed"`
	Survived      int     `json:"survived"`
	Invalid       int     `json:"invalid"`
	Skipped       int     `json:"skipped"`
	MutationScore float64 `json:"mutation_score"`
	DurationSecs  float64 `json:"duration_secs"`
}

// SurvivedMutantDetail describes one surviving mutant for report consumers.
type SurvivedMutantDetail struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Original string `json:"original"`
	Mutant   string `json:"mutant"`
}

// JSONReport is the machine-readable campaign report. Survived mutants are
// grouped by the relative path of the file they originate from.
type JSONReport struct {
	Summary         ReportSummary                     `json:"summary"`
	SurvivedMutants map[string][]SurvivedMutantDetail `json:"survived_mutants"`
}
