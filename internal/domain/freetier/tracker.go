// Package freetier tracks monthly free-tier hour consumption for the
// instance classes AWS grants 750 hours per month.
package freetier

import (
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

// DefaultCapHours is the AWS free-tier allowance per category per month.
const DefaultCapHours = 750

var eligibleClasses = map[string]entity.FreeTierCategory{
	"t2.micro":    entity.FreeTierEC2,
	"t3.micro":    entity.FreeTierEC2,
	"db.t2.micro": entity.FreeTierRDS,
	"db.t3.micro": entity.FreeTierRDS,
}

// Eligible reports the free-tier category a record accrues against, if any.
// Only billable states accrue.
func Eligible(rec entity.ResourceRecord) (entity.FreeTierCategory, bool) {
	meta := rec.Meta()
	if !meta.Status.Billable() {
		return "", false
	}
	cat, ok := eligibleClasses[meta.Class]
	return cat, ok
}

// Tracker accumulates free-tier hours across scan cycles. It is not safe
// for concurrent use; the scan loop owns it.
type Tracker struct {
	cap   float64
	month time.Time
	hours map[entity.FreeTierCategory]float64
}

func NewTracker(capHours float64) *Tracker {
	if capHours <= 0 {
		capHours = DefaultCapHours
	}
	return &Tracker{
		cap:   capHours,
		hours: map[entity.FreeTierCategory]float64{},
	}
}

// Accrue adds elapsed wall-clock hours for every eligible record. Buckets
// reset when now enters a new UTC calendar month; hours are never clamped,
// so a bucket past the cap reads above 100%.
func (t *Tracker) Accrue(records []entity.ResourceRecord, elapsed time.Duration, now time.Time) {
	m := monthStart(now)
	if !m.Equal(t.month) {
		t.month = m
		t.hours = map[entity.FreeTierCategory]float64{}
	}
	if elapsed <= 0 {
		return
	}
	for _, rec := range records {
		if cat, ok := Eligible(rec); ok {
			t.hours[cat] += elapsed.Hours()
		}
	}
}

// Seed force-sets a category bucket. Used to resume accrual from persisted
// history after a restart within the same month.
func (t *Tracker) Seed(cat entity.FreeTierCategory, hours float64, now time.Time) {
	t.month = monthStart(now)
	t.hours[cat] = hours
}

// Usage returns every category in a stable order, including untouched ones.
func (t *Tracker) Usage() []entity.FreeTierUsage {
	cats := []entity.FreeTierCategory{entity.FreeTierEC2, entity.FreeTierRDS}
	out := make([]entity.FreeTierUsage, 0, len(cats))
	for _, c := range cats {
		out = append(out, entity.FreeTierUsage{
			Category:  c,
			HoursUsed: t.hours[c],
			CapHours:  t.cap,
			Month:     t.month,
		})
	}
	return out
}

func monthStart(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
