package model

import (
	"testing"
	"time"
)

func TestDefaultAppConfigMatchesDefaultOptions(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultOptions()

	if cfg.DefaultTimeLimit != defaults.TimeLimit {
		t.Errorf("TimeLimit mismatch: config=%v options=%v", cfg.DefaultTimeLimit, defaults.TimeLimit)
	}
	if cfg.DefaultTolerance != defaults.Tolerance {
		t.Errorf("Tolerance mismatch: config=%g options=%g", cfg.DefaultTolerance, defaults.Tolerance)
	}
	if cfg.DefaultHeuristic != defaults.Heuristic {
		t.Errorf("Heuristic mismatch: config=%v options=%v", cfg.DefaultHeuristic, defaults.Heuristic)
	}
	if cfg.Units != "mm" {
		t.Errorf("expected default units=mm, got %s", cfg.Units)
	}
	if cfg.RecentJobs == nil {
		t.Error("RecentJobs should not be nil")
	}
}

func TestApplyToOptions(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultTimeLimit = 30 * time.Second
	cfg.DefaultWorkers = 4
	cfg.DefaultHeuristic = false

	o := DefaultOptions()
	cfg.ApplyToOptions(&o)

	if o.TimeLimit != 30*time.Second {
		t.Errorf("expected TimeLimit=30s, got %v", o.TimeLimit)
	}
	if o.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", o.Workers)
	}
	if o.Heuristic {
		t.Error("expected Heuristic=false")
	}
}

func TestAddRecentJob(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentJob("a.json", 2)
	cfg.AddRecentJob("b.json", 2)
	cfg.AddRecentJob("a.json", 2)
	cfg.AddRecentJob("c.json", 2)

	if len(cfg.RecentJobs) != 2 {
		t.Fatalf("expected 2 recent jobs, got %d", len(cfg.RecentJobs))
	}
	if cfg.RecentJobs[0] != "c.json" || cfg.RecentJobs[1] != "a.json" {
		t.Errorf("unexpected recent order: %v", cfg.RecentJobs)
	}
}
