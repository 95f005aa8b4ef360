package types

import "time"

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	Profile    string
	Regions    []string
	Interval   time.Duration
	Fast       bool
	DBPath     string
	NoHistory  bool
	LogFile    string
	ReportName string
	ReportType []string
	Dir        string
}

// MergedConfig applies the flag overrides on top of a loaded configuration.
// Flags win over the file; the file wins over the defaults.
func (a CLIArgs) MergedConfig(base Config) Config {
	cfg := base
	if a.Profile != "" {
		cfg.Profile = a.Profile
	}
	if len(a.Regions) > 0 {
		cfg.Regions = a.Regions
	}
	if a.Interval > 0 {
		cfg.IntervalSeconds = int(a.Interval / time.Second)
	}
	if a.Fast {
		cfg.IntervalSeconds = 60
	}
	if a.DBPath != "" {
		cfg.DBPath = a.DBPath
	}
	if a.NoHistory {
		cfg.NoHistory = true
	}
	if a.LogFile != "" {
		cfg.LogFile = a.LogFile
	}
	if a.ReportName != "" {
		cfg.ReportName = a.ReportName
	}
	if len(a.ReportType) > 0 {
		cfg.ReportType = a.ReportType
	}
	if a.Dir != "" {
		cfg.Dir = a.Dir
	}
	return cfg
}
