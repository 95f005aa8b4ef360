package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Profile         string   `json:"profile" yaml:"profile" toml:"profile"`
	Regions         []string `json:"regions" yaml:"regions" toml:"regions"`
	IntervalSeconds int      `json:"interval_seconds" yaml:"interval_seconds" toml:"interval_seconds"`
	CallTimeoutSecs int      `json:"call_timeout_seconds" yaml:"call_timeout_seconds" toml:"call_timeout_seconds"`
	MaxWorkers      int      `json:"max_workers" yaml:"max_workers" toml:"max_workers"`
	DBPath          string   `json:"db_path" yaml:"db_path" toml:"db_path"`
	NoHistory       bool     `json:"no_history" yaml:"no_history" toml:"no_history"`
	LogFile         string   `json:"log_file" yaml:"log_file" toml:"log_file"`
	TrendWindow     int      `json:"trend_window" yaml:"trend_window" toml:"trend_window"`

	// Alert thresholds; zeros fall back to the built-in defaults.
	MonthlyCritical     float64 `json:"monthly_critical" yaml:"monthly_critical" toml:"monthly_critical"`
	MonthlyWarning      float64 `json:"monthly_warning" yaml:"monthly_warning" toml:"monthly_warning"`
	FreeTierCriticalPct float64 `json:"free_tier_critical_pct" yaml:"free_tier_critical_pct" toml:"free_tier_critical_pct"`
	FreeTierWarningPct  float64 `json:"free_tier_warning_pct" yaml:"free_tier_warning_pct" toml:"free_tier_warning_pct"`
	FreeTierCapHours    float64 `json:"free_tier_cap_hours" yaml:"free_tier_cap_hours" toml:"free_tier_cap_hours"`

	// Report written on shutdown when ReportName is set.
	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`
}

// DefaultConfig returns the baseline configuration before file and flag
// overrides are applied.
func DefaultConfig() Config {
	return Config{
		IntervalSeconds:  600,
		CallTimeoutSecs:  30,
		MaxWorkers:       10,
		DBPath:           "costwatch.db",
		LogFile:          "aws_costwatch.log",
		TrendWindow:      7,
		FreeTierCapHours: 750,
	}
}
