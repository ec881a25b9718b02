package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// ReportStore persists and retrieves check reports.
type ReportStore interface {
	SaveReport(path m.Path, report m.Report) error
	LoadReport(path m.Path) (m.Report, error)
}

type reportStore struct{}

// NewReportStore constructs a ReportStore. Files ending in .yaml or .yml are
// stored as YAML, everything else as indented JSON.
func NewReportStore() ReportStore {
	return &reportStore{}
}

func (rs *reportStore) SaveReport(path m.Path, report m.Report) error {
	data, err := encodeReport(path, report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if dir := filepath.Dir(string(path)); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	tmp := string(path) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := os.Rename(tmp, string(path)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func (rs *reportStore) LoadReport(path m.Path) (m.Report, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := decodeReport(path, data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	if report.Violations == nil {
		report.Violations = []m.Violation{}
	}

	return report, nil
}

func isYAML(path m.Path) bool {
	ext := strings.ToLower(filepath.Ext(string(path)))

	return ext == ".yaml" || ext == ".yml"
}

func encodeReport(path m.Path, report m.Report) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(report)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

func decodeReport(path m.Path, data []byte, report *m.Report) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, report)
	}

	return json.Unmarshal(data, report)
}
