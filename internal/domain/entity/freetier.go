package entity

import "time"

// FreeTierCategory identifies one free-tier hour bucket.
type FreeTierCategory string

const (
	FreeTierEC2 FreeTierCategory = "EC2 t2/t3.micro"
	FreeTierRDS FreeTierCategory = "RDS db.t2/t3.micro"
)

// FreeTierUsage is the accrued usage of one category for one calendar month.
// HoursUsed is not clamped: values above CapHours mean the free tier was
// exceeded and Percent goes past 100.
type FreeTierUsage struct {
	Category  FreeTierCategory
	HoursUsed float64
	CapHours  float64
	Month     time.Time // first instant of the UTC month
}

// Percent returns usage as a percentage of the cap, possibly above 100.
func (u FreeTierUsage) Percent() float64 {
	if u.CapHours <= 0 {
		return 0
	}
	return u.HoursUsed / u.CapHours * 100
}
