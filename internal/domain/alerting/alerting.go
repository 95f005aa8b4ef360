// Package alerting evaluates fixed thresholds over a snapshot. Evaluation
// is stateless: alerts describe the current snapshot only, with no memory
// of previous cycles.
package alerting

import (
	"fmt"
	"sort"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/freetier"
)

// Thresholds are the evaluation cut lines. Zero values are replaced by the
// defaults, so an empty struct behaves like DefaultThresholds().
type Thresholds struct {
	MonthlyCritical     float64
	MonthlyWarning      float64
	FreeTierCriticalPct float64
	FreeTierWarningPct  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MonthlyCritical:     100,
		MonthlyWarning:      50,
		FreeTierCriticalPct: 95,
		FreeTierWarningPct:  80,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MonthlyCritical <= 0 {
		t.MonthlyCritical = d.MonthlyCritical
	}
	if t.MonthlyWarning <= 0 {
		t.MonthlyWarning = d.MonthlyWarning
	}
	if t.FreeTierCriticalPct <= 0 {
		t.FreeTierCriticalPct = d.FreeTierCriticalPct
	}
	if t.FreeTierWarningPct <= 0 {
		t.FreeTierWarningPct = d.FreeTierWarningPct
	}
	return t
}

// Evaluate derives the alert list for one snapshot. Within a trigger family
// the critical rule supersedes the warning rule, so a single cause never
// produces both severities. The result is ordered critical, warning, info.
func Evaluate(snap entity.AggregateSnapshot, th Thresholds) []entity.Alert {
	th = th.withDefaults()
	var alerts []entity.Alert

	switch {
	case snap.TotalMonthly > th.MonthlyCritical:
		alerts = append(alerts, entity.Alert{
			Severity: entity.SeverityCritical,
			Family:   "cost",
			Message:  fmt.Sprintf("projected monthly cost $%.2f exceeds $%.2f", snap.TotalMonthly, th.MonthlyCritical),
		})
	case snap.TotalMonthly > th.MonthlyWarning:
		alerts = append(alerts, entity.Alert{
			Severity: entity.SeverityWarning,
			Family:   "cost",
			Message:  fmt.Sprintf("projected monthly cost $%.2f exceeds $%.2f", snap.TotalMonthly, th.MonthlyWarning),
		})
	}

	for _, u := range snap.FreeTier {
		pct := u.Percent()
		switch {
		case pct > th.FreeTierCriticalPct:
			alerts = append(alerts, entity.Alert{
				Severity: entity.SeverityCritical,
				Family:   "free-tier",
				Message:  fmt.Sprintf("%s free tier at %.1f%% (%.0f of %.0f hours)", u.Category, pct, u.HoursUsed, u.CapHours),
			})
		case pct > th.FreeTierWarningPct:
			alerts = append(alerts, entity.Alert{
				Severity: entity.SeverityWarning,
				Family:   "free-tier",
				Message:  fmt.Sprintf("%s free tier at %.1f%% (%.0f of %.0f hours)", u.Category, pct, u.HoursUsed, u.CapHours),
			})
		}
	}

	for _, v := range snap.ZombieVolumes() {
		alerts = append(alerts, entity.Alert{
			Severity:   entity.SeverityWarning,
			Family:     "zombie",
			Message:    fmt.Sprintf("unattached EBS volume %s (%d GiB) in %s", v.ID, v.SizeGiB, v.Region),
			ResourceID: v.ID,
		})
	}

	for _, a := range snap.OrphanedAddresses() {
		alerts = append(alerts, entity.Alert{
			Severity:   entity.SeverityWarning,
			Family:     "orphan",
			Message:    fmt.Sprintf("elastic IP %s in %s is not associated", a.PublicIP, a.Region),
			ResourceID: a.ID,
		})
	}

	for _, cell := range snap.Unknown {
		region := cell.Region
		if region == "" {
			region = "global"
		}
		alerts = append(alerts, entity.Alert{
			Severity: entity.SeverityWarning,
			Family:   "unknown",
			Message:  fmt.Sprintf("%s listing failed in %s, cell excluded from totals", cell.Service, region),
		})
	}

	for _, rec := range snap.Records {
		meta := rec.Meta()
		if meta.Service != entity.ServiceEC2 || meta.Status != entity.StateRunning {
			continue
		}
		if _, free := freetier.Eligible(rec); free {
			continue
		}
		alerts = append(alerts, entity.Alert{
			Severity:   entity.SeverityInfo,
			Family:     "instance",
			Message:    fmt.Sprintf("instance %s (%s) in %s runs outside the free tier", meta.ID, meta.Class, meta.Region),
			ResourceID: meta.ID,
		})
	}

	for _, b := range snap.Budgets {
		if b.Limit > 0 && b.Actual > b.Limit {
			alerts = append(alerts, entity.Alert{
				Severity: entity.SeverityWarning,
				Family:   "budget",
				Message:  fmt.Sprintf("budget %q exceeded: $%.2f of $%.2f", b.Name, b.Actual, b.Limit),
			})
		}
	}

	for _, idle := range snap.Idle {
		alerts = append(alerts, entity.Alert{
			Severity:   entity.SeverityInfo,
			Family:     "idle",
			Message:    fmt.Sprintf("instance %s (%s) in %s averaged %.1f%% CPU", idle.ID, idle.Class, idle.Region, idle.AvgCPU),
			ResourceID: idle.ID,
		})
	}

	if snap.DiscoveryDegraded {
		alerts = append(alerts, entity.Alert{
			Severity: entity.SeverityWarning,
			Family:   "region",
			Message:  "region discovery failed, scanning the fallback region list",
		})
	}
	if len(snap.Regions) == 0 {
		alerts = append(alerts, entity.Alert{
			Severity: entity.SeverityInfo,
			Family:   "region",
			Message:  "no regions to scan",
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}
