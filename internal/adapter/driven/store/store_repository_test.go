package store

import (
	"context"
	"testing"
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

func openTestStore(t *testing.T) *StoreRepositoryImpl {
	t.Helper()
	repo, err := Open(t.TempDir() + "/costwatch.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo.(*StoreRepositoryImpl)
}

func sampleSnapshot(n int, ts time.Time) entity.AggregateSnapshot {
	return entity.AggregateSnapshot{
		Timestamp:    ts,
		ScanNumber:   n,
		TotalHourly:  0.0104,
		TotalDaily:   0.2496,
		TotalMonthly: 7.488,
		Records: []entity.ResourceRecord{
			entity.EC2Record{ResourceMeta: entity.ResourceMeta{
				ID: "i-1", Service: entity.ServiceEC2, Status: entity.StateRunning,
			}},
			entity.VolumeRecord{
				ResourceMeta: entity.ResourceMeta{ID: "vol-1", Service: entity.ServiceEBS},
				SizeGiB:      8,
			},
		},
		FreeTier: []entity.FreeTierUsage{
			{Category: entity.FreeTierEC2, HoursUsed: 375, CapHours: 750},
			{Category: entity.FreeTierRDS, HoursUsed: 40, CapHours: 750},
		},
		Alerts: []entity.Alert{
			{Severity: entity.SeverityWarning, Family: "zombie", Message: "unattached volume", ResourceID: "vol-1"},
		},
	}
}

func TestAppendAndRecentScans(t *testing.T) {
	repo := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := repo.AppendScan(ctx, sampleSnapshot(i+1, base.Add(time.Duration(i)*10*time.Minute))); err != nil {
			t.Fatalf("append scan %d: %v", i, err)
		}
	}

	rows, err := repo.RecentScans(ctx, 10)
	if err != nil {
		t.Fatalf("recent scans: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	// chronological order, oldest first
	for i := 1; i < len(rows); i++ {
		if rows[i].Timestamp.Before(rows[i-1].Timestamp) {
			t.Fatalf("rows out of chronological order: %v before %v", rows[i].Timestamp, rows[i-1].Timestamp)
		}
	}

	first := rows[0]
	if first.TotalResources != 2 {
		t.Fatalf("total resources = %d, want 2", first.TotalResources)
	}
	if first.ZombieCount != 1 {
		t.Fatalf("zombie count = %d, want 1", first.ZombieCount)
	}
	if first.FreeTierMaxPct != 50 {
		t.Fatalf("free tier pct = %v, want 50", first.FreeTierMaxPct)
	}
	if first.FreeTierEC2Hours != 375 || first.FreeTierRDSHours != 40 {
		t.Fatalf("free tier hours = %v/%v, want 375/40", first.FreeTierEC2Hours, first.FreeTierRDSHours)
	}
	if first.AlertCount != 1 {
		t.Fatalf("alert count = %d, want 1", first.AlertCount)
	}
	if first.AlertsJSON == "" || first.AlertsJSON == "[]" {
		t.Fatalf("alerts json = %q, want serialized alerts", first.AlertsJSON)
	}
	if !first.Timestamp.Equal(base) {
		t.Fatalf("timestamp = %v, want %v", first.Timestamp, base)
	}
}

func TestRecentScansWindow(t *testing.T) {
	repo := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		if err := repo.AppendScan(ctx, sampleSnapshot(i+1, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append scan %d: %v", i, err)
		}
	}

	rows, err := repo.RecentScans(ctx, 7)
	if err != nil {
		t.Fatalf("recent scans: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("rows = %d, want 7", len(rows))
	}
	// window keeps the newest 7, so the first row is scan #4
	if want := base.Add(3 * time.Minute); !rows[0].Timestamp.Equal(want) {
		t.Fatalf("oldest row in window = %v, want %v", rows[0].Timestamp, want)
	}
}

func TestRecentScansEmpty(t *testing.T) {
	repo := openTestStore(t)
	rows, err := repo.RecentScans(context.Background(), 7)
	if err != nil {
		t.Fatalf("recent scans: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}
