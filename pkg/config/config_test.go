package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.False(t, cfg.App.StrictErrors)
	assert.Equal(t, SourceCSV, cfg.Data.Source)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, filepath.Join("data", "program_sports.csv"), filepath.Clean(cfg.Data.ProgramsPath()))
	assert.Equal(t, filepath.Join("data", "sports_facilities.csv"), filepath.Clean(cfg.Data.FacilitiesPath()))
	assert.Empty(t, cfg.Data.ProgramTimeColumns)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STRICT_ERRORS", "true")
	t.Setenv("DATA_SOURCE", "LIBSQL")
	t.Setenv("CACHE", "memory")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("PROGRAM_TIME_COLUMNS", "morning, afternoon ,evening")
	t.Setenv("PROGRAM_DAY_COLUMNS", "Mon,Tue,,Wed")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, cfg.App.StrictErrors)
	assert.Equal(t, SourceLibSQL, cfg.Data.Source)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"morning", "afternoon", "evening"}, cfg.Data.ProgramTimeColumns)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, cfg.Data.ProgramDayColumns)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=7000\nPROGRAMS_FILE=/srv/programs.csv\n"), 0o644))

	cfg, err := LoadConfig(viper.New(), envFile)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.App.Port)
	assert.Equal(t, "/srv/programs.csv", cfg.Data.ProgramsPath())
}

func TestLoadConfig_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown source", "DATA_SOURCE", "postgres"},
		{"unknown cache", "CACHE", "memcached"},
		{"bad port", "PORT", "eighty"},
		{"port out of range", "PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig(viper.New(), "")
			assert.Error(t, err)
		})
	}
}
