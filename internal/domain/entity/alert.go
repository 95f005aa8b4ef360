package entity

// Severity orders alert importance. Critical supersedes warning within the
// same trigger family, never the other way around.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// rank for display ordering; lower renders first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Alert is one finding produced by threshold evaluation over a snapshot.
type Alert struct {
	Severity   Severity
	Family     string // trigger family: cost, free-tier, zombie, orphan, instance, budget, idle, region
	Message    string
	ResourceID string
}
