package config

import "testing"

func TestLoadServer_DefaultsPortWhenUnset(t *testing.T) {
	t.Setenv("PORT", "")
	cfg := LoadServer()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
}

func TestLoadServer_HonorsPortEnvVar(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg := LoadServer()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
}

func TestLoadGeneration_Defaults(t *testing.T) {
	t.Setenv("CROSSMINI_MAX_CANDIDATES", "")
	t.Setenv("CROSSMINI_EXCELLENT_THRESHOLD", "")
	cfg := LoadGeneration()
	if cfg.MaxCandidates != 5 {
		t.Errorf("MaxCandidates = %d, want 5", cfg.MaxCandidates)
	}
	if cfg.ExcellentThreshold != 0.7 {
		t.Errorf("ExcellentThreshold = %v, want 0.7", cfg.ExcellentThreshold)
	}
}

func TestLoadGeneration_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("CROSSMINI_MAX_CANDIDATES", "not-a-number")
	cfg := LoadGeneration()
	if cfg.MaxCandidates != 5 {
		t.Errorf("MaxCandidates = %d, want fallback 5", cfg.MaxCandidates)
	}
}
