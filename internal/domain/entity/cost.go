package entity

// ServiceCost represents a cost amount for a specific AWS service.
type ServiceCost struct {
	ServiceName string  `json:"service_name"`
	Cost        float64 `json:"cost"`
}

// CostData is the Cost Explorer view of the account: real billed amounts,
// as opposed to the static-table estimates.
type CostData struct {
	CurrentMonthCost          float64       `json:"current_month"`
	LastMonthCost             float64       `json:"last_month"`
	CurrentMonthCostByService []ServiceCost `json:"current_month_cost_by_service"`

	// Data transfer split by usage type direction.
	TransferNorthSouth float64 `json:"transfer_north_south"`
	TransferEastWest   float64 `json:"transfer_east_west"`
}

// BudgetInfo represents one AWS Budget and its consumption.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast"`
}

// PercentUsed returns actual spend as a percentage of the budget limit.
func (b BudgetInfo) PercentUsed() float64 {
	if b.Limit <= 0 {
		return 0
	}
	return b.Actual / b.Limit * 100
}
