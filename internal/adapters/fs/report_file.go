package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/deltaship/internal/domain"
)

const reportFileName = "report.json"

// ReportFileRepository implements ports.ReportRepository using a JSON file.
type ReportFileRepository struct {
	dir string
}

// NewReportFileRepository creates a repository writing into dir.
func NewReportFileRepository(dir string) *ReportFileRepository {
	return &ReportFileRepository{dir: dir}
}

// Load reads the last saved report.
// Returns an empty report and nil error if no report file exists.
func (r *ReportFileRepository) Load() (domain.RunReport, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RunReport{}, nil
		}
		return domain.RunReport{}, err
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.RunReport{}, err
	}
	return report, nil
}

// Save writes the report atomically (temp file, then rename).
func (r *ReportFileRepository) Save(report domain.RunReport) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the report file.
func (r *ReportFileRepository) Path() string {
	return filepath.Join(r.dir, reportFileName)
}
