package alerting

import (
	"strings"
	"testing"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

func countFamily(alerts []entity.Alert, family string) (critical, warning, info int) {
	for _, a := range alerts {
		if a.Family != family {
			continue
		}
		switch a.Severity {
		case entity.SeverityCritical:
			critical++
		case entity.SeverityWarning:
			warning++
		default:
			info++
		}
	}
	return
}

func TestCostThresholds(t *testing.T) {
	cases := []struct {
		name         string
		monthly      float64
		wantCritical int
		wantWarning  int
	}{
		{"under both", 30, 0, 0},
		{"over warning", 60, 0, 1},
		{"exactly warning", 50, 0, 0},
		{"over critical supersedes warning", 120, 1, 0},
		{"exactly critical stays warning", 100, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := entity.AggregateSnapshot{TotalMonthly: tc.monthly}
			alerts := Evaluate(snap, Thresholds{})
			c, w, _ := countFamily(alerts, "cost")
			if c != tc.wantCritical || w != tc.wantWarning {
				t.Fatalf("monthly %v: critical=%d warning=%d, want %d/%d",
					tc.monthly, c, w, tc.wantCritical, tc.wantWarning)
			}
		})
	}
}

func TestFreeTierThresholds(t *testing.T) {
	cases := []struct {
		name         string
		hours        float64
		wantCritical int
		wantWarning  int
	}{
		{"low usage", 100, 0, 0},
		{"warning band", 650, 0, 1},  // 86.7%
		{"critical band", 740, 1, 0}, // 98.7%
		{"over the cap", 1080, 1, 0}, // 144%
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := entity.AggregateSnapshot{FreeTier: []entity.FreeTierUsage{{
				Category:  entity.FreeTierEC2,
				HoursUsed: tc.hours,
				CapHours:  750,
			}}}
			alerts := Evaluate(snap, Thresholds{})
			c, w, _ := countFamily(alerts, "free-tier")
			if c != tc.wantCritical || w != tc.wantWarning {
				t.Fatalf("hours %v: critical=%d warning=%d, want %d/%d",
					tc.hours, c, w, tc.wantCritical, tc.wantWarning)
			}
		})
	}
}

func TestResourceAlerts(t *testing.T) {
	snap := entity.AggregateSnapshot{
		Records: []entity.ResourceRecord{
			entity.VolumeRecord{
				ResourceMeta: entity.ResourceMeta{ID: "vol-1", Service: entity.ServiceEBS, Region: "us-east-1", Status: entity.StateAvailable},
				SizeGiB:      20,
			},
			entity.AddressRecord{
				ResourceMeta: entity.ResourceMeta{ID: "eipalloc-1", Service: entity.ServiceEIP, Region: "us-east-1"},
				PublicIP:     "3.3.3.3",
			},
			entity.EC2Record{ResourceMeta: entity.ResourceMeta{
				ID: "i-big", Service: entity.ServiceEC2, Region: "us-east-1",
				Class: "m5.large", Status: entity.StateRunning,
			}},
			entity.EC2Record{ResourceMeta: entity.ResourceMeta{
				ID: "i-micro", Service: entity.ServiceEC2, Region: "us-east-1",
				Class: "t3.micro", Status: entity.StateRunning,
			}},
		},
	}

	alerts := Evaluate(snap, Thresholds{})

	if _, w, _ := countFamily(alerts, "zombie"); w != 1 {
		t.Fatalf("zombie warnings = %d, want 1", w)
	}
	if _, w, _ := countFamily(alerts, "orphan"); w != 1 {
		t.Fatalf("orphan warnings = %d, want 1", w)
	}
	_, _, info := countFamily(alerts, "instance")
	if info != 1 {
		t.Fatalf("non-free-tier instance infos = %d, want 1 (micro must not fire)", info)
	}
	for _, a := range alerts {
		if a.Family == "instance" && !strings.Contains(a.Message, "i-big") {
			t.Fatalf("instance alert names %q, want i-big", a.Message)
		}
	}
}

func TestBudgetAndIdleAndRegionAlerts(t *testing.T) {
	snap := entity.AggregateSnapshot{
		Budgets: []entity.BudgetInfo{
			{Name: "team", Limit: 100, Actual: 130},
			{Name: "ok", Limit: 100, Actual: 20},
		},
		Idle:              []entity.IdleResource{{ID: "i-idle", Class: "c5.large", Region: "us-east-1", AvgCPU: 1.2}},
		DiscoveryDegraded: true,
	}

	alerts := Evaluate(snap, Thresholds{})

	if _, w, _ := countFamily(alerts, "budget"); w != 1 {
		t.Fatalf("budget warnings = %d, want 1", w)
	}
	if _, _, i := countFamily(alerts, "idle"); i != 1 {
		t.Fatalf("idle infos = %d, want 1", i)
	}
	_, w, i := countFamily(alerts, "region")
	if w != 1 || i != 1 {
		t.Fatalf("region alerts = %d warning / %d info, want 1/1", w, i)
	}
}

func TestUnknownCellsEmitWarnings(t *testing.T) {
	snap := entity.AggregateSnapshot{
		Unknown: []entity.ServiceRegion{
			{Service: entity.ServiceEC2, Region: "eu-west-1"},
			{Service: entity.ServiceS3},
		},
	}

	alerts := Evaluate(snap, Thresholds{})

	_, w, _ := countFamily(alerts, "unknown")
	if w != 2 {
		t.Fatalf("unknown warnings = %d, want one per failed cell", w)
	}
	var sawRegion, sawGlobal bool
	for _, a := range alerts {
		if a.Family != "unknown" {
			continue
		}
		if strings.Contains(a.Message, "eu-west-1") {
			sawRegion = true
		}
		if strings.Contains(a.Message, "global") {
			sawGlobal = true
		}
	}
	if !sawRegion || !sawGlobal {
		t.Fatalf("unknown alerts must name the cell (region=%v global=%v)", sawRegion, sawGlobal)
	}
}

func TestAlertsOrderedBySeverity(t *testing.T) {
	snap := entity.AggregateSnapshot{
		TotalMonthly: 150,
		Records: []entity.ResourceRecord{
			entity.EC2Record{ResourceMeta: entity.ResourceMeta{
				ID: "i-big", Service: entity.ServiceEC2, Class: "m5.large", Status: entity.StateRunning,
			}},
			entity.VolumeRecord{
				ResourceMeta: entity.ResourceMeta{ID: "vol-1", Service: entity.ServiceEBS},
				SizeGiB:      8,
			},
		},
	}

	alerts := Evaluate(snap, Thresholds{})
	if len(alerts) < 3 {
		t.Fatalf("alerts = %d, want at least 3", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].Severity.Rank() > alerts[i].Severity.Rank() {
			t.Fatalf("alerts out of order at %d: %v after %v", i, alerts[i].Severity, alerts[i-1].Severity)
		}
	}
	if alerts[0].Severity != entity.SeverityCritical {
		t.Fatalf("first alert severity = %v, want critical", alerts[0].Severity)
	}
}

func TestCustomThresholds(t *testing.T) {
	snap := entity.AggregateSnapshot{TotalMonthly: 15}
	alerts := Evaluate(snap, Thresholds{MonthlyCritical: 20, MonthlyWarning: 10})
	_, w, _ := countFamily(alerts, "cost")
	if w != 1 {
		t.Fatalf("warnings = %d, want 1 with custom threshold", w)
	}
}
