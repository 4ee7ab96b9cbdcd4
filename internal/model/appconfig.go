package model

import "time"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default solver settings applied to new jobs
	DefaultTimeLimit time.Duration `json:"default_time_limit"`
	DefaultNodeLimit int           `json:"default_node_limit"`
	DefaultTolerance float64       `json:"default_tolerance"`
	DefaultWorkers   int           `json:"default_workers"`
	DefaultHeuristic bool          `json:"default_heuristic"`

	// Reporting preferences
	MinOffcutLength float64 `json:"min_offcut_length"` // leftovers at least this long are kept as offcuts
	Units           string  `json:"units"`             // "mm" or "in", display only

	RecentJobs []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultOptions().
func DefaultAppConfig() AppConfig {
	defaults := DefaultOptions()
	return AppConfig{
		DefaultTimeLimit: defaults.TimeLimit,
		DefaultNodeLimit: defaults.NodeLimit,
		DefaultTolerance: defaults.Tolerance,
		DefaultWorkers:   defaults.Workers,
		DefaultHeuristic: defaults.Heuristic,
		MinOffcutLength:  MinOffcutLength,
		Units:            "mm",
		RecentJobs:       []string{},
	}
}

// ApplyToOptions copies the default values from AppConfig into an Options struct.
// This is used when creating a new job so it inherits the user's saved defaults.
func (c AppConfig) ApplyToOptions(o *Options) {
	o.TimeLimit = c.DefaultTimeLimit
	o.NodeLimit = c.DefaultNodeLimit
	o.Tolerance = c.DefaultTolerance
	o.Workers = c.DefaultWorkers
	o.Heuristic = c.DefaultHeuristic
}

// AddRecentJob moves path to the front of the recent list, keeping at most limit entries.
func (c *AppConfig) AddRecentJob(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentJobs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentJobs = recent
}
