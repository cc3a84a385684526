package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	SourceCSV    = "csv"
	SourceLibSQL = "libsql"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	App   AppConfig
	Data  DataConfig
	Cache CacheConfig
	Redis RedisConfig
}

type AppConfig struct {
	Port         int
	LogLevel     string
	StrictErrors bool
}

type DataConfig struct {
	Dir                string
	ProgramsFile       string
	FacilitiesFile     string
	Source             string
	DatabaseURL        string
	ProgramTimeColumns []string
	ProgramDayColumns  []string
}

type CacheConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ProgramsPath is the programs file resolved against the data directory.
func (d DataConfig) ProgramsPath() string {
	return resolve(d.Dir, d.ProgramsFile)
}

func (d DataConfig) FacilitiesPath() string {
	return resolve(d.Dir, d.FacilitiesFile)
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8001)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STRICT_ERRORS", false)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("PROGRAMS_FILE", "program_sports.csv")
	v.SetDefault("FACILITIES_FILE", "sports_facilities.csv")
	v.SetDefault("DATA_SOURCE", SourceCSV)
	v.SetDefault("DATABASE_URL", "file:data.db")
	v.SetDefault("PROGRAM_TIME_COLUMNS", "")
	v.SetDefault("PROGRAM_DAY_COLUMNS", "")
	v.SetDefault("CACHE", CacheNone)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
}

// LoadConfig reads the environment and, when present, envFile.
func LoadConfig(v *viper.Viper, envFile string) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	port, err := cast.ToIntE(v.Get("PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		cacheTTL = 10 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:         port,
			LogLevel:     v.GetString("LOG_LEVEL"),
			StrictErrors: v.GetBool("STRICT_ERRORS"),
		},
		Data: DataConfig{
			Dir:                v.GetString("DATA_DIR"),
			ProgramsFile:       v.GetString("PROGRAMS_FILE"),
			FacilitiesFile:     v.GetString("FACILITIES_FILE"),
			Source:             strings.ToLower(v.GetString("DATA_SOURCE")),
			DatabaseURL:        v.GetString("DATABASE_URL"),
			ProgramTimeColumns: splitList(v.Get("PROGRAM_TIME_COLUMNS")),
			ProgramDayColumns:  splitList(v.Get("PROGRAM_DAY_COLUMNS")),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(v.GetString("CACHE")),
			TTL:     cacheTTL,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Data.Source {
	case SourceCSV, SourceLibSQL:
	default:
		return fmt.Errorf("unsupported DATA_SOURCE %q", c.Data.Source)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE %q", c.Cache.Backend)
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.App.Port)
	}

	return nil
}

// splitList accepts comma separated strings as well as slices.
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	default:
		parts = cast.ToStringSlice(val)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
