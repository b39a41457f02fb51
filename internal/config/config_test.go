package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("MANAGER_PIN", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.ManagerPIN != "" {
		t.Fatalf("expected empty MANAGER_PIN when unset, got %q", cfg.ManagerPIN)
	}
}

func TestLoadFallsBackOnBadCacheTTL(t *testing.T) {
	t.Setenv("SUMMARY_CACHE_TTL_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.SummaryCacheTTLSeconds != 300 {
		t.Fatalf("expected fallback cache ttl 300, got %d", cfg.SummaryCacheTTLSeconds)
	}
}
