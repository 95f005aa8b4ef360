package entity

import "time"

// ServiceRegion identifies one (service, region) scan cell.
type ServiceRegion struct {
	Service ServiceKind
	Region  string
}

// AggregateSnapshot is the complete result of one scan cycle. It is built
// once per cycle by a pure reduction and never mutated afterwards except for
// attaching the alert list.
type AggregateSnapshot struct {
	Timestamp    time.Time
	ScanNumber   int
	AccountID    string
	AccountAlias string
	Regions      []string

	Records   []ResourceRecord
	Estimates []CostEstimate

	Counts      map[ServiceKind]int
	StateCounts map[ResourceState]int

	// Totals cover only successfully scanned cells. A cell listed in
	// Unknown contributed nothing; its resources are not counted as zero.
	TotalHourly       float64
	TotalDaily        float64
	TotalMonthly      float64
	TotalLifetime     float64
	EstimatedPartial  bool // at least one estimate used a fallback rate
	Unknown           []ServiceRegion
	DiscoveryDegraded bool // region discovery failed, fallback list in use

	FreeTier []FreeTierUsage

	Cost            CostData
	CostUnavailable bool

	Budgets            []BudgetInfo
	BudgetsUnavailable bool

	Idle []IdleResource

	Alerts []Alert

	Elapsed time.Duration
}

// ZombieVolumes returns the unattached EBS volumes in the snapshot.
func (s AggregateSnapshot) ZombieVolumes() []VolumeRecord {
	var out []VolumeRecord
	for _, rec := range s.Records {
		if v, ok := rec.(VolumeRecord); ok && !v.Attached {
			out = append(out, v)
		}
	}
	return out
}

// OrphanedAddresses returns the Elastic IPs not associated with anything.
func (s AggregateSnapshot) OrphanedAddresses() []AddressRecord {
	var out []AddressRecord
	for _, rec := range s.Records {
		if a, ok := rec.(AddressRecord); ok && !a.Associated {
			out = append(out, a)
		}
	}
	return out
}

// TotalResources is the count of resources across all scanned cells.
func (s AggregateSnapshot) TotalResources() int {
	return len(s.Records)
}

// FreeTierHours returns the accrued hours for one category, zero when the
// category is not tracked in this snapshot.
func (s AggregateSnapshot) FreeTierHours(cat FreeTierCategory) float64 {
	for _, u := range s.FreeTier {
		if u.Category == cat {
			return u.HoursUsed
		}
	}
	return 0
}

// MaxFreeTierPercent returns the highest category usage percentage.
func (s AggregateSnapshot) MaxFreeTierPercent() float64 {
	var max float64
	for _, u := range s.FreeTier {
		if p := u.Percent(); p > max {
			max = p
		}
	}
	return max
}
