package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "DATASET_PATH", "DATASET_DRIVER", "DATASET_DSN", "DATASET_TABLE",
		"DONATE_BASE_URL", "PAGE_SIZE", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS", "METRICS_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "charity_navigator.csv", cfg.DatasetPath)
	assert.Equal(t, 7, cfg.PageSize)
	assert.Equal(t, "https://example.com/donate/", cfg.DonateBaseURL)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.AllowedOrigins())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "port: \"9000\"\ndataset_path: /data/file.csv\npage_size: 5\nmetrics_enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "/data/file.csv", cfg.DatasetPath)
	assert.Equal(t, 5, cfg.PageSize)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad page size":   {"PAGE_SIZE": "seven"},
		"zero page size":  {"PAGE_SIZE": "0"},
		"unknown driver":  {"DATASET_DRIVER": "oracle"},
		"sql without dsn": {"DATASET_DRIVER": "postgres"},
		"bad table":       {"DATASET_DRIVER": "sqlite", "DATASET_DSN": "file.db", "DATASET_TABLE": "x; drop"},
		"bad log format":  {"LOG_FORMAT": "xml"},
		"missing yaml":    {"CONFIG_FILE": "/nonexistent/config.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: " http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}
