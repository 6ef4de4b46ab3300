package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Voting    VotingConfig    `mapstructure:"voting"`
	Comments  CommentsConfig  `mapstructure:"comments"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type VotingConfig struct {
	MaxVotesPerUser int `mapstructure:"max_votes_per_user"`
}

type CommentsConfig struct {
	MaxPerUserPerCrash int `mapstructure:"max_per_user_per_crash"`
}

type StoreConfig struct {
	MaxUpdateAttempts int `mapstructure:"max_update_attempts"`
}

type CacheConfig struct {
	// Driver is "sqlite", "memory" or "none".
	Driver   string        `mapstructure:"driver"`
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.config")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("cache_driver", cfg.Cache.Driver),
		slog.Int("max_votes_per_user", cfg.Voting.MaxVotesPerUser),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Voting.MaxVotesPerUser <= 0 {
		return errors.New("voting.max_votes_per_user must be positive")
	}
	if c.Comments.MaxPerUserPerCrash <= 0 {
		return errors.New("comments.max_per_user_per_crash must be positive")
	}
	if c.Store.MaxUpdateAttempts <= 0 {
		return errors.New("store.max_update_attempts must be positive")
	}
	switch strings.ToLower(c.Cache.Driver) {
	case "sqlite", "memory", "none":
	default:
		return errs.Wrapf(errors.New("unsupported cache driver"), "cache.driver %q", c.Cache.Driver)
	}
	if strings.EqualFold(c.Cache.Driver, "memory") && c.Cache.Capacity <= 0 {
		return errors.New("cache.capacity must be positive for the memory driver")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "samaritan")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".state/samaritan.sqlite")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("voting.max_votes_per_user", 10)
	v.SetDefault("comments.max_per_user_per_crash", 10)
	v.SetDefault("store.max_update_attempts", 3)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.capacity", 256)
	v.SetDefault("telemetry.enabled", false)
}
