package ports

import "github.com/bft-labs/deltaship/internal/domain"

// StatsRecorder observes every completed frame exchange.
type StatsRecorder interface {
	RecordFrame(report domain.FrameReport)
}

// ReportRepository persists the summary of a run.
type ReportRepository interface {
	Save(report domain.RunReport) error
}
