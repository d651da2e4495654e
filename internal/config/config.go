package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               string `yaml:"port"`
	DatasetPath        string `yaml:"dataset_path"`
	DatasetDriver      string `yaml:"dataset_driver"`
	DatasetDSN         string `yaml:"dataset_dsn"`
	DatasetTable       string `yaml:"dataset_table"`
	DonateBaseURL      string `yaml:"donate_base_url"`
	PageSize           int    `yaml:"page_size"`
	LogLevel           string `yaml:"log_level"`
	LogFormat          string `yaml:"log_format"`
	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`
	MetricsEnabled     bool   `yaml:"metrics_enabled"`
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func defaults() Config {
	return Config{
		Port:           "5001",
		DatasetPath:    "charity_navigator.csv",
		DatasetTable:   "charities",
		DonateBaseURL:  "https://example.com/donate/",
		PageSize:       7,
		LogLevel:       "info",
		LogFormat:      "json",
		MetricsEnabled: true,
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// readFile overlays the YAML file at path onto cfg. Keys absent from the file keep
// their current values.
func readFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, the optional CONFIG_FILE, and
// environment variables, in increasing order of precedence.
func Load() (Config, error) {
	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = strings.TrimSpace(getenv("PORT", cfg.Port))
	cfg.DatasetPath = strings.TrimSpace(getenv("DATASET_PATH", cfg.DatasetPath))
	cfg.DatasetDriver = strings.ToLower(strings.TrimSpace(getenv("DATASET_DRIVER", cfg.DatasetDriver)))
	cfg.DatasetDSN = strings.TrimSpace(getenv("DATASET_DSN", cfg.DatasetDSN))
	cfg.DatasetTable = strings.TrimSpace(getenv("DATASET_TABLE", cfg.DatasetTable))
	cfg.DonateBaseURL = strings.TrimSpace(getenv("DONATE_BASE_URL", cfg.DonateBaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", cfg.LogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", cfg.LogFormat)))
	cfg.CORSAllowedOrigins = strings.TrimSpace(getenv("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins))
	cfg.MetricsEnabled = getenvBool("METRICS_ENABLED", cfg.MetricsEnabled)

	pageSize, err := getenvInt("PAGE_SIZE", cfg.PageSize)
	if err != nil {
		return Config{}, err
	}
	cfg.PageSize = pageSize

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("missing PORT")
	}
	if c.PageSize <= 0 {
		return errors.New("PAGE_SIZE must be positive")
	}
	switch c.DatasetDriver {
	case "":
		if c.DatasetPath == "" {
			return errors.New("missing DATASET_PATH")
		}
	case "postgres", "sqlite":
		if c.DatasetDSN == "" {
			return errors.New("missing DATASET_DSN")
		}
		if !tableNameRe.MatchString(c.DatasetTable) {
			return fmt.Errorf("invalid DATASET_TABLE %q", c.DatasetTable)
		}
	default:
		return fmt.Errorf("unsupported DATASET_DRIVER %q", c.DatasetDriver)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// AllowedOrigins splits CORSAllowedOrigins on commas, dropping blanks.
func (c Config) AllowedOrigins() []string {
	out := make([]string, 0)
	for _, part := range strings.Split(c.CORSAllowedOrigins, ",") {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
