package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/varmint-dev/varmint/internal/model"
)

// reportFileName is the file written into the output directory per run.
const reportFileName = "report.yaml"

// ReportStore persists and retrieves run reports.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error
	LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error)
}

type reportStore struct{}

// NewReportStore constructs a ReportStore writing YAML files.
func NewReportStore() ReportStore {
	return &reportStore{}
}

func (rs *reportStore) SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func (rs *reportStore) LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error) {
	if err := ctx.Err(); err != nil {
		return m.RunReport{}, err
	}

	path := filepath.Join(string(dir), reportFileName)

	data, err := os.ReadFile(path) // #nosec G304 - path is the configured report dir
	if err != nil {
		return m.RunReport{}, fmt.Errorf("failed to read report: %w", err)
	}

	var report m.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.RunReport{}, fmt.Errorf("failed to decode report: %w", err)
	}

	return report, nil
}
