// Package aggregate reduces the per-(service,region) fetch results of one
// scan cycle into a single snapshot. The reduction is pure: the same input
// always builds the same snapshot, and a failed cell is marked unknown and
// excluded from totals rather than counted as zero.
package aggregate

import (
	"sort"
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/estimator"
)

// FetchResult is the outcome of one (service, region) list call.
type FetchResult struct {
	Service entity.ServiceKind
	Region  string
	Records []entity.ResourceRecord
	Err     error
}

// Input gathers everything one cycle produced before reduction.
type Input struct {
	Timestamp    time.Time
	ScanNumber   int
	AccountID    string
	AccountAlias string
	Regions      []string
	Results      []FetchResult

	FreeTier []entity.FreeTierUsage

	// Cost and Budgets are best-effort; nil means the call failed and the
	// corresponding Unavailable flag is set on the snapshot.
	Cost    *entity.CostData
	Budgets []entity.BudgetInfo

	BudgetsFailed     bool
	DiscoveryDegraded bool

	Idle    []entity.IdleResource
	Elapsed time.Duration
}

// Build reduces one cycle into a snapshot, pricing every successfully
// fetched record with the given estimator as of Input.Timestamp.
func Build(in Input, est *estimator.Estimator) entity.AggregateSnapshot {
	snap := entity.AggregateSnapshot{
		Timestamp:          in.Timestamp,
		ScanNumber:         in.ScanNumber,
		AccountID:          in.AccountID,
		AccountAlias:       in.AccountAlias,
		Regions:            in.Regions,
		Counts:             map[entity.ServiceKind]int{},
		StateCounts:        map[entity.ResourceState]int{},
		FreeTier:           in.FreeTier,
		Budgets:            in.Budgets,
		BudgetsUnavailable: in.BudgetsFailed,
		DiscoveryDegraded:  in.DiscoveryDegraded,
		Idle:               in.Idle,
		Elapsed:            in.Elapsed,
	}

	if in.Cost != nil {
		snap.Cost = *in.Cost
	} else {
		snap.CostUnavailable = true
	}

	for _, res := range in.Results {
		if res.Err != nil {
			snap.Unknown = append(snap.Unknown, entity.ServiceRegion{
				Service: res.Service,
				Region:  res.Region,
			})
			continue
		}
		for _, rec := range res.Records {
			meta := rec.Meta()
			snap.Records = append(snap.Records, rec)
			snap.Counts[meta.Service]++
			snap.StateCounts[meta.Status]++

			e := est.Estimate(rec, in.Timestamp)
			snap.Estimates = append(snap.Estimates, e)
			snap.TotalHourly += e.HourlyOngoing
			snap.TotalDaily += e.DailyCost
			snap.TotalMonthly += e.MonthlyProjection
			snap.TotalLifetime += e.LifetimeCost
			if e.Estimated {
				snap.EstimatedPartial = true
			}
		}
	}

	sort.Slice(snap.Unknown, func(i, j int) bool {
		a, b := snap.Unknown[i], snap.Unknown[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Service < b.Service
	})

	return snap
}
