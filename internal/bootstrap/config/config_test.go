package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  env: test\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Env != "test" || cfg.App.Name != "samaritan" {
		t.Fatalf("Load() app = %+v", cfg.App)
	}
	if cfg.Voting.MaxVotesPerUser != 10 || cfg.Comments.MaxPerUserPerCrash != 10 || cfg.Store.MaxUpdateAttempts != 3 {
		t.Fatalf("Load() limits = %+v %+v %+v", cfg.Voting, cfg.Comments, cfg.Store)
	}
	if cfg.Cache.Driver != "sqlite" || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("Load() cache = %+v", cfg.Cache)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("voting:\n  max_votes_per_user: 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GS_VOTING_MAX_VOTES_PER_USER", "7")
	t.Setenv("GS_CACHE_DRIVER", "memory")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Voting.MaxVotesPerUser != 7 {
		t.Fatalf("Load() max votes = %d", cfg.Voting.MaxVotesPerUser)
	}
	if cfg.Cache.Driver != "memory" {
		t.Fatalf("Load() cache driver = %q", cfg.Cache.Driver)
	}
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  max_update_attempts: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatalf("Load() expected error for zero max_update_attempts")
	}
}

func TestLoadRejectsUnknownCacheDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  driver: redis\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatalf("Load() expected error for unknown cache driver")
	}
}
