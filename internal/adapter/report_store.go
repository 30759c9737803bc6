package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	m "solmut.dev/pkg/solmut/internal/model"
)

// ReportStore persists the final campaign report.
type ReportStore interface {
	SaveReport(path m.Path, report m.JSONReport) error
	LoadReport(path m.Path) (m.JSONReport, error)
}

// JSONReportStore writes pretty-printed JSON reports to disk.
type JSONReportStore struct{}

// NewJSONReportStore constructs a JSONReportStore.
func NewJSONReportStore() *JSONReportStore {
	return &JSONReportStore{}
}

// SaveReport writes the report to path, creating parent directories.
func (s *JSONReportStore) SaveReport(path m.Path, report m.JSONReport) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), payload, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// LoadReport reads a previously saved report.
func (s *JSONReportStore) LoadReport(path m.Path) (m.JSONReport, error) {
	var report m.JSONReport

	payload, err := os.ReadFile(string(path))
	if err != nil {
		return report, fmt.Errorf("failed to read report: %w", err)
	}

	if err := json.Unmarshal(payload, &report); err != nil {
		return report, fmt.Errorf("failed to decode report: %w", err)
	}

	return report, nil
}
