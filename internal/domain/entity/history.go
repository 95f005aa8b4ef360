package entity

import "time"

// ScanHistoryRow is one persisted scan, flattened for the history table.
type ScanHistoryRow struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	TotalResources int       `json:"total_resources"`
	TotalHourly    float64   `json:"total_hourly"`
	TotalDaily     float64   `json:"total_daily"`
	TotalMonthly   float64   `json:"total_monthly"`
	NorthSouth     float64   `json:"transfer_north_south"`
	EastWest       float64   `json:"transfer_east_west"`
	ZombieCount    int       `json:"zombie_count"`
	FreeTierMaxPct float64   `json:"free_tier_max_pct"`

	// Per-category hours let a restart within the same month resume the
	// free-tier accrual instead of starting from zero.
	FreeTierEC2Hours float64 `json:"free_tier_ec2_hours"`
	FreeTierRDSHours float64 `json:"free_tier_rds_hours"`

	AlertCount int    `json:"alert_count"`
	AlertsJSON string `json:"alerts_json"`
}
