// Package estimator turns scanned resource records into static-price cost
// estimates. Estimates are deterministic: the same record and the same
// reference time always produce the same numbers.
package estimator

import (
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/pricing"
)

// Assumption models for services with no per-hour metering input in a
// read-only scan.
const (
	assumedS3GiB             = 10.0
	assumedLambdaInvocations = 100000.0
	lambdaPerInvocation      = 0.0000002
	alarmMonthly             = 0.10
	gib                      = 1024 * 1024 * 1024
)

// Estimator prices resource records against a static table.
type Estimator struct {
	prices *pricing.Table
}

func New(prices *pricing.Table) *Estimator {
	return &Estimator{prices: prices}
}

// Estimate prices a single record as of now. Resources in a non-billable
// state keep their lifetime cost but have zero ongoing hourly cost and a
// zero monthly projection.
func (e *Estimator) Estimate(rec entity.ResourceRecord, now time.Time) entity.CostEstimate {
	meta := rec.Meta()
	est := entity.CostEstimate{
		ResourceID:  meta.ID,
		Service:     meta.Service,
		Region:      meta.Region,
		Class:       meta.Class,
		UptimeHours: uptimeHours(meta.Created, now),
	}

	switch meta.Service {
	case entity.ServiceEC2, entity.ServiceRDS:
		rate, exact := e.prices.Hourly(meta.Service, meta.Class, meta.Region)
		est.HourlyRate = rate
		est.Estimated = !exact
		est.LifetimeCost = rate * est.UptimeHours
		if meta.Status.Billable() {
			est.HourlyOngoing = rate
			est.MonthlyProjection = rate * pricing.HoursPerMonth()
		}

	case entity.ServiceEIP:
		rate, _ := e.prices.Hourly(entity.ServiceEIP, "", meta.Region)
		est.HourlyRate = rate
		est.HourlyOngoing = rate
		est.MonthlyProjection = rate * pricing.HoursPerMonth()
		est.LifetimeCost = rate * est.UptimeHours

	case entity.ServiceS3:
		monthly := e.prices.StorageMonthlyPerGiB(entity.ServiceS3) * assumedS3GiB
		e.fillStorage(&est, monthly)

	case entity.ServiceEBS:
		v, _ := rec.(entity.VolumeRecord)
		monthly := e.prices.StorageMonthlyPerGiB(entity.ServiceEBS) * float64(v.SizeGiB)
		e.fillStorage(&est, monthly)

	case entity.ServiceLogGroup:
		lg, _ := rec.(entity.LogGroupRecord)
		monthly := e.prices.StorageMonthlyPerGiB(entity.ServiceLogGroup) * float64(lg.StoredBytes) / gib
		e.fillStorage(&est, monthly)

	case entity.ServiceLambda:
		e.fillStorage(&est, assumedLambdaInvocations*lambdaPerInvocation)

	case entity.ServiceAlarm:
		e.fillStorage(&est, alarmMonthly)
	}

	est.DailyCost = est.HourlyOngoing * 24
	return est
}

// fillStorage derives the rates of a flat-monthly assumption model. These
// estimates are assumption-based and always flagged estimated.
func (e *Estimator) fillStorage(est *entity.CostEstimate, monthly float64) {
	hourly := pricing.MonthlyToHourly(monthly)
	est.HourlyRate = hourly
	est.HourlyOngoing = hourly
	est.MonthlyProjection = monthly
	est.LifetimeCost = hourly * est.UptimeHours
	est.Estimated = true
}

// uptimeHours clamps negative spans (clock skew on freshly created
// resources) to zero.
func uptimeHours(created, now time.Time) float64 {
	if created.IsZero() || !created.Before(now) {
		return 0
	}
	return now.Sub(created).Hours()
}
