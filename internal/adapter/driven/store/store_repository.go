// Package store persiste o histórico de scans em um arquivo sqlite local.
// A tabela é append-only: uma linha por ciclo, nunca atualizada.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	total_resources INTEGER NOT NULL,
	total_hourly REAL NOT NULL,
	total_daily REAL NOT NULL,
	total_monthly REAL NOT NULL,
	transfer_north_south REAL NOT NULL DEFAULT 0,
	transfer_east_west REAL NOT NULL DEFAULT 0,
	zombie_count INTEGER NOT NULL DEFAULT 0,
	free_tier_max_pct REAL NOT NULL DEFAULT 0,
	free_tier_ec2_hours REAL NOT NULL DEFAULT 0,
	free_tier_rds_hours REAL NOT NULL DEFAULT 0,
	alert_count INTEGER NOT NULL DEFAULT 0,
	alerts_json TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(ts);
`

// StoreRepositoryImpl implementa o StoreRepository sobre sqlite.
type StoreRepositoryImpl struct {
	db *sql.DB
}

// Open abre (ou cria) o banco no caminho dado e aplica o schema.
func Open(path string) (repository.StoreRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate scans table: %w", err)
	}

	return &StoreRepositoryImpl{db: db}, nil
}

// AppendScan grava uma linha para o snapshot. Os alertas vão achatados em
// JSON para inspeção posterior sem esquema adicional.
func (s *StoreRepositoryImpl) AppendScan(ctx context.Context, snap entity.AggregateSnapshot) error {
	alertsJSON, err := json.Marshal(snap.Alerts)
	if err != nil {
		alertsJSON = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (
			ts, total_resources, total_hourly, total_daily, total_monthly,
			transfer_north_south, transfer_east_west, zombie_count,
			free_tier_max_pct, free_tier_ec2_hours, free_tier_rds_hours,
			alert_count, alerts_json
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		snap.TotalResources(),
		snap.TotalHourly,
		snap.TotalDaily,
		snap.TotalMonthly,
		snap.Cost.TransferNorthSouth,
		snap.Cost.TransferEastWest,
		len(snap.ZombieVolumes()),
		snap.MaxFreeTierPercent(),
		snap.FreeTierHours(entity.FreeTierEC2),
		snap.FreeTierHours(entity.FreeTierRDS),
		len(snap.Alerts),
		string(alertsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert scan row: %w", err)
	}
	return nil
}

// RecentScans devolve as últimas linhas em ordem cronológica (mais antiga
// primeiro), pronta para o painel de tendência.
func (s *StoreRepositoryImpl) RecentScans(ctx context.Context, limit int) ([]entity.ScanHistoryRow, error) {
	if limit <= 0 {
		limit = 7
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, total_resources, total_hourly, total_daily, total_monthly,
		       transfer_north_south, transfer_east_west, zombie_count,
		       free_tier_max_pct, free_tier_ec2_hours, free_tier_rds_hours,
		       alert_count, alerts_json
		FROM scans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent scans: %w", err)
	}
	defer rows.Close()

	var out []entity.ScanHistoryRow
	for rows.Next() {
		var row entity.ScanHistoryRow
		var ts string
		if err := rows.Scan(
			&row.ID, &ts, &row.TotalResources, &row.TotalHourly, &row.TotalDaily,
			&row.TotalMonthly, &row.NorthSouth, &row.EastWest, &row.ZombieCount,
			&row.FreeTierMaxPct, &row.FreeTierEC2Hours, &row.FreeTierRDSHours,
			&row.AlertCount, &row.AlertsJSON,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		row.Timestamp, _ = time.Parse("2006-01-02T15:04:05Z", ts)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// reverte para ordem cronológica
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *StoreRepositoryImpl) Close() error {
	return s.db.Close()
}
