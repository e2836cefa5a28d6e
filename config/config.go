// Package config resolves server settings in layers: built-in defaults, an
// optional YAML file, environment variables, then command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port  string `yaml:"port"`
	GoEnv string `yaml:"goEnv"`

	DatabaseURL   string `yaml:"databaseUrl"`
	MigrationsDir string `yaml:"migrationsDir"`
	QuotaBytes    int64  `yaml:"quotaBytes"`

	FlatDir         string `yaml:"flatDir"`
	FlatBudgetBytes int64  `yaml:"flatBudgetBytes"`
}

func Default() *Config {
	return &Config{
		Port:          "8080",
		MigrationsDir: "migrations",
		FlatDir:       "data",
	}
}

// Load resolves the effective configuration. args is the process argv tail;
// flags win over env vars, which win over the YAML file, which wins over
// defaults.
func Load(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("fingnet-server", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	port := fs.String("port", "", "Port to listen on")
	databaseURL := fs.String("database-url", "", "Postgres connection string")
	flatDir := fs.String("flat-dir", "", "Directory for the flat JSON store")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := cfg.mergeFile(*configPath); err != nil {
			return nil, err
		}
	}

	cfg.mergeEnv()

	if *port != "" {
		cfg.Port = *port
	}
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}
	if *flatDir != "" {
		cfg.FlatDir = *flatDir
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("GOENV"); v != "" {
		c.GoEnv = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		c.MigrationsDir = v
	}
	if v := os.Getenv("FLAT_DIR"); v != "" {
		c.FlatDir = v
	}
	if v := os.Getenv("STORAGE_QUOTA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.QuotaBytes = n
		}
	}
	if v := os.Getenv("FLAT_BUDGET_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.FlatBudgetBytes = n
		}
	}
}
