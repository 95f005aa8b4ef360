package repository

import (
	"context"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

// StoreRepository persists one row per completed scan. The history is
// append-only; rows are never updated or deleted by the application.
type StoreRepository interface {
	AppendScan(ctx context.Context, snap entity.AggregateSnapshot) error
	RecentScans(ctx context.Context, limit int) ([]entity.ScanHistoryRow, error)
	Close() error
}
