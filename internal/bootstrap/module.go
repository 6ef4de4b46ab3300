package bootstrap

import (
	"context"
	"os"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/config"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/database"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/telemetry"
	cacheinfra "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/cache"
	sqliterepo "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/uow"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/transport/httpapi"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/seed"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Invoke(configureLogging),
	fx.Invoke(setupTelemetry),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewCrashRepository,
			fx.As(new(ports.CrashRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewUserRepository,
			fx.As(new(ports.UserRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCache),
	fx.Provide(provideCrashService),
	fx.Provide(provideUserService),
	fx.Provide(provideVoteLimiter),
	fx.Provide(provideSeedLoader),
	fx.Provide(provideHTTPHandler),
	fx.Provide(provideHTTPServer),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithComponent(p.Ctx, "bootstrap.fx")
	return config.Load(ctx, p.ConfigFile)
}

func configureLogging(cfg config.Config) error {
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	return nil
}

func setupTelemetry(lc fx.Lifecycle, ctx context.Context, cfg config.Config) error {
	shutdown, err := telemetry.Setup(ctx, cfg.App, cfg.Telemetry, os.Stderr)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithComponent(ctx, "bootstrap.fx")

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideCache returns a nil Cache for the "none" driver; services treat a
// nil cache as disabled.
func provideCache(cfg config.Config, db *gorm.DB) ports.Cache {
	switch strings.ToLower(cfg.Cache.Driver) {
	case "memory":
		return cacheinfra.NewMemoryCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	case "none":
		return nil
	default:
		return cacheinfra.NewSQLiteCache(db, cfg.Cache.TTL)
	}
}

func provideCrashService(
	cfg config.Config,
	crashes ports.CrashRepository,
	users ports.UserRepository,
	uow ports.UnitOfWork,
	cache ports.Cache,
) *crash.Service {
	return crash.NewService(crashes, users, uow, cache, crash.Limits{
		MaxVotesPerUser:      cfg.Voting.MaxVotesPerUser,
		MaxCommentsPerAuthor: cfg.Comments.MaxPerUserPerCrash,
		MaxUpdateAttempts:    cfg.Store.MaxUpdateAttempts,
		StatsTTL:             cfg.Cache.TTL,
	})
}

func provideUserService(cfg config.Config, users ports.UserRepository, uow ports.UnitOfWork) *user.Service {
	return user.NewService(users, uow, user.Options{MaxUpdateAttempts: cfg.Store.MaxUpdateAttempts})
}

func provideVoteLimiter(cfg config.Config, crashes *crash.Service) *crash.VoteLimiter {
	return crash.NewVoteLimiter(crashes, cfg.Voting.MaxVotesPerUser)
}

func provideSeedLoader(users *user.Service, crashes *crash.Service, limiter *crash.VoteLimiter) *seed.Loader {
	return seed.NewLoader(users, crashes, limiter)
}

func provideHTTPHandler(users *user.Service, crashes *crash.Service, limiter *crash.VoteLimiter) *httpapi.Handler {
	return httpapi.NewHandler(users, crashes, limiter)
}

func provideHTTPServer(cfg config.Config, handler *httpapi.Handler) *httpapi.Server {
	return httpapi.NewServer(cfg.HTTP, handler)
}
