package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/transport/httpapi"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

func writeConfig(t *testing.T, cacheDriver string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  dsn: " + filepath.Join(dir, "state", "test.sqlite") + "\n" +
		"cache:\n  driver: " + cacheDriver + "\n" +
		"log:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestModuleWiresServices(t *testing.T) {
	for _, driver := range []string{"sqlite", "memory", "none"} {
		t.Run(driver, func(t *testing.T) {
			cfgPath := writeConfig(t, driver)
			ctx := context.Background()

			var (
				app     *App
				users   *user.Service
				crashes *crash.Service
				limiter *crash.VoteLimiter
				server  *httpapi.Server
			)
			fxApp := fx.New(
				Module,
				fx.NopLogger,
				fx.Provide(func() context.Context { return ctx }),
				fx.Provide(
					fx.Annotate(
						func() string { return cfgPath },
						fx.ResultTags(`name:"configFile"`),
					),
				),
				fx.Populate(&app, &users, &crashes, &limiter, &server),
			)
			if err := fxApp.Err(); err != nil {
				t.Fatalf("fx.New() error = %v", err)
			}

			startCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := fxApp.Start(startCtx); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			t.Cleanup(func() {
				_ = fxApp.Stop(context.Background())
			})

			if err := app.InitSchema(ctx); err != nil {
				t.Fatalf("InitSchema() error = %v", err)
			}
			for _, table := range []string{"users", "crashes", "cache_entries"} {
				if !app.DB.Migrator().HasTable(table) {
					t.Fatalf("table %s missing after InitSchema", table)
				}
			}

			profile, err := users.Register(ctx, user.RegisterInput{
				Handle:    "wired",
				Password:  "secret",
				FirstName: "Wire",
				LastName:  "Up",
			})
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if err := limiter.Allow(ctx, profile.UserID); err != nil {
				t.Fatalf("Allow() error = %v", err)
			}
			if _, err := crashes.Statistics(ctx); err != nil {
				t.Fatalf("Statistics() error = %v", err)
			}
			if got := crashes.Limits().MaxVotesPerUser; got != 10 {
				t.Fatalf("MaxVotesPerUser = %d", got)
			}
		})
	}
}
