package config

import (
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vessel-match-service/internal/matching"
)

type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Preferences PreferencesConfig `yaml:"preferences" mapstructure:"preferences"`
	Matching    matching.Config   `yaml:"matching" mapstructure:"matching"`
}

type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// Driver is one of memory, sqlite or postgres.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	SeedPath    string `yaml:"seed_path" mapstructure:"seed_path"`
	SeedOnStart bool   `yaml:"seed_on_start" mapstructure:"seed_on_start"`
	AnchorsPath string `yaml:"anchors_path" mapstructure:"anchors_path"`
}

// Backend is memory or redis.
type CacheConfig struct {
	Backend    string      `yaml:"backend" mapstructure:"backend"`
	MaxEntries int         `yaml:"max_entries" mapstructure:"max_entries"`
	Redis      RedisConfig `yaml:"redis" mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	TTLSecs  int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

func (r RedisConfig) TTL() time.Duration { return time.Duration(r.TTLSecs) * time.Second }

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type PreferencesConfig struct {
	// Quiet period before a weights change triggers a cache warm-up.
	DebounceMillis int `yaml:"debounce_millis" mapstructure:"debounce_millis"`
}

func (p PreferencesConfig) Debounce() time.Duration {
	return time.Duration(p.DebounceMillis) * time.Millisecond
}

// Load reads config.yaml from the working directory (optional), then
// VESSELMATCH_* environment variables, over built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VESSELMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	cfg := Config{Matching: matching.DefaultConfig()}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "vesselmatch.db")
	v.SetDefault("store.seed_path", "data/seeds/offers.json")
	v.SetDefault("store.seed_on_start", false)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_entries", 100)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.ttl_secs", 900)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("preferences.debounce_millis", 300)

	m := matching.DefaultConfig()
	v.SetDefault("matching.weights.size", m.Weights.Size)
	v.SetDefault("matching.weights.laycan", m.Weights.Laycan)
	v.SetDefault("matching.weights.geography", m.Weights.Geography)
	v.SetDefault("matching.weights.rate", m.Weights.Rate)
	v.SetDefault("matching.weights.age", m.Weights.Age)
	v.SetDefault("matching.weights.cargo", m.Weights.Cargo)
	v.SetDefault("matching.baselines.profit", m.Baselines.Profit)
	v.SetDefault("matching.baselines.rate", m.Baselines.Rate)
	v.SetDefault("matching.baselines.dwt", m.Baselines.DWT)
	v.SetDefault("matching.assumed_age", m.AssumedAge)
	v.SetDefault("matching.assumed_max_age", m.AssumedMaxAge)
	v.SetDefault("matching.risk_score_threshold", m.RiskScoreThreshold)
	v.SetDefault("matching.risk_laycan_gap_days", m.RiskLaycanGapDays)
}

var (
	storeDrivers  = []string{"memory", "sqlite", "postgres"}
	cacheBackends = []string{"memory", "redis"}
)

func (c *Config) Validate() error {
	if !slices.Contains(storeDrivers, c.Store.Driver) {
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required for the postgres driver")
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return eris.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.MaxEntries <= 0 {
		return eris.New("config: cache.max_entries must be positive")
	}
	if c.Matching.AssumedMaxAge <= 0 {
		return eris.New("config: matching.assumed_max_age must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// InitLogger builds the global zap logger from cfg.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
