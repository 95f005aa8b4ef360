package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

func sampleData() (entity.AggregateSnapshot, []entity.ScanHistoryRow) {
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	snap := entity.AggregateSnapshot{
		Timestamp:    ts,
		ScanNumber:   3,
		AccountID:    "123456789012",
		AccountAlias: "123456789012 (dev)",
		Regions:      []string{"us-east-1"},
		TotalHourly:  0.0104,
		TotalDaily:   0.2496,
		TotalMonthly: 7.488,
		Alerts: []entity.Alert{
			{Severity: entity.SeverityWarning, Family: "zombie", Message: "unattached EBS volume vol-1 (8 GiB) in us-east-1"},
		},
	}
	history := []entity.ScanHistoryRow{
		{ID: 1, Timestamp: ts.Add(-20 * time.Minute), TotalResources: 2, TotalMonthly: 7.0, AlertCount: 1},
		{ID: 2, Timestamp: ts.Add(-10 * time.Minute), TotalResources: 2, TotalMonthly: 7.2, AlertCount: 1},
		{ID: 3, Timestamp: ts, TotalResources: 2, TotalMonthly: 7.488, AlertCount: 1},
	}
	return snap, history
}

func TestExportToCSV(t *testing.T) {
	snap, history := sampleData()
	dir := t.TempDir()

	path, err := NewExportRepository().ExportToCSV(snap, history, "report", dir)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv lines = %d, want header + 3 rows", len(lines))
	}
	if !strings.Contains(lines[0], "Monthly Projection") {
		t.Fatalf("csv header = %q", lines[0])
	}
	if !strings.Contains(lines[3], "$7.49") {
		t.Fatalf("last row = %q, want monthly $7.49", lines[3])
	}
}

func TestExportToJSON(t *testing.T) {
	snap, history := sampleData()
	dir := t.TempDir()

	path, err := NewExportRepository().ExportToJSON(snap, history, "report", dir)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["account_id"] != "123456789012" {
		t.Fatalf("account_id = %v", decoded["account_id"])
	}
	if hist, ok := decoded["history"].([]any); !ok || len(hist) != 3 {
		t.Fatalf("history = %v", decoded["history"])
	}
}

func TestExportToPDF(t *testing.T) {
	snap, history := sampleData()
	dir := t.TempDir()

	path, err := NewExportRepository().ExportToPDF(snap, history, "report", dir)
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("pdf file is empty")
	}
}
