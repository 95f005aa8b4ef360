package repository

import (
	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

// ExportRepository writes the final snapshot and scan history to report
// files on shutdown.
type ExportRepository interface {
	ExportToCSV(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, filename, outputDir string) (string, error)
	ExportToJSON(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, filename, outputDir string) (string, error)
	ExportToPDF(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, filename, outputDir string) (string, error)
}
