// Package pricing holds the static on-demand price table used for cost
// estimation. Rates are public us-east-1 on-demand prices in USD; lookups
// for classes outside the table fall back to a per-service default and are
// flagged as such.
package pricing

import "github.com/diillson/aws-costwatch-go/internal/domain/entity"

const hoursPerMonth = 720

type classKey struct {
	service entity.ServiceKind
	class   string
}

type regionKey struct {
	service entity.ServiceKind
	class   string
	region  string
}

// Table resolves hourly and per-GiB-month rates. The zero value is unusable;
// construct with DefaultTable.
type Table struct {
	regional map[regionKey]float64
	hourly   map[classKey]float64
	fallback map[entity.ServiceKind]float64
	storage  map[entity.ServiceKind]float64 // USD per GiB-month
}

// DefaultTable returns the built-in price table.
func DefaultTable() *Table {
	return &Table{
		regional: map[regionKey]float64{
			// sa-east-1 runs noticeably above us-east-1 for the common types.
			{entity.ServiceEC2, "t3.micro", "sa-east-1"}: 0.0168,
			{entity.ServiceEC2, "m5.large", "sa-east-1"}: 0.153,
		},
		hourly: map[classKey]float64{
			{entity.ServiceEC2, "t2.micro"}:  0.0116,
			{entity.ServiceEC2, "t3.micro"}:  0.0104,
			{entity.ServiceEC2, "t3.small"}:  0.0208,
			{entity.ServiceEC2, "t3.medium"}: 0.0416,
			{entity.ServiceEC2, "m5.large"}:  0.096,
			{entity.ServiceEC2, "c5.large"}:  0.085,

			{entity.ServiceRDS, "db.t2.micro"}:  0.017,
			{entity.ServiceRDS, "db.t3.micro"}:  0.016,
			{entity.ServiceRDS, "db.t3.small"}:  0.032,
			{entity.ServiceRDS, "db.t3.medium"}: 0.064,
			{entity.ServiceRDS, "db.m5.large"}:  0.171,

			// Elastic IPs bill a flat hourly rate while allocated.
			{entity.ServiceEIP, ""}: 0.005,
		},
		fallback: map[entity.ServiceKind]float64{
			entity.ServiceEC2: 0.05,
			entity.ServiceRDS: 0.05,
		},
		storage: map[entity.ServiceKind]float64{
			entity.ServiceS3:       0.023,
			entity.ServiceEBS:      0.08,
			entity.ServiceLogGroup: 0.03,
		},
	}
}

// Hourly returns the hourly rate for a (service, class) pair. The region
// override wins when present. exact is false when the rate came from the
// per-service fallback.
func (t *Table) Hourly(service entity.ServiceKind, class, region string) (rate float64, exact bool) {
	if r, ok := t.regional[regionKey{service, class, region}]; ok {
		return r, true
	}
	if r, ok := t.hourly[classKey{service, class}]; ok {
		return r, true
	}
	return t.fallback[service], false
}

// StorageMonthlyPerGiB returns the per-GiB-month storage rate for services
// billed on stored volume.
func (t *Table) StorageMonthlyPerGiB(service entity.ServiceKind) float64 {
	return t.storage[service]
}

// MonthlyToHourly converts a flat monthly charge to its hourly equivalent.
func MonthlyToHourly(monthly float64) float64 {
	return monthly / hoursPerMonth
}

// HoursPerMonth is the flat month length used by all projections.
func HoursPerMonth() float64 { return hoursPerMonth }
