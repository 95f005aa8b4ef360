package entity

// CostEstimate is the static-price estimate for a single resource at one
// point in time. All money values are USD.
type CostEstimate struct {
	ResourceID string
	Service    ServiceKind
	Region     string
	Class      string

	// HourlyRate is the table rate for the resource class. It applies
	// whether or not the resource currently bills.
	HourlyRate float64
	// HourlyOngoing is zero for resources in a non-billable state.
	HourlyOngoing float64
	UptimeHours   float64

	DailyCost         float64
	MonthlyProjection float64
	LifetimeCost      float64

	// Estimated is set when the rate came from a fallback or an assumption
	// model rather than an exact price-table entry.
	Estimated bool
}
