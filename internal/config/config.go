package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"git.sr.ht/~jakintosh/todo/internal/logger"
	"git.sr.ht/~jakintosh/todo/internal/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	EnvConfig    = "TODO_CONFIG"
	EnvAddr      = "TODO_ADDR"
	EnvDB        = "TODO_DB"
	EnvLogLevel  = "TODO_LOG_LEVEL"
	EnvLogPretty = "TODO_LOG_PRETTY"
	EnvMemory    = "TODO_MEMORY"
)

type Config struct {
	Addr      string `yaml:"addr"`
	DBPath    string `yaml:"db"`
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
	Memory    bool   `yaml:"memory"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		DBPath:   store.DefaultPath(),
		LogLevel: "info",
	}
}

// getConfigValue returns the CLI flag value if set, otherwise falls back to env var.
func getConfigValue(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}

// Load resolves configuration from, in increasing precedence: defaults, the
// YAML file, the dotenv file and process environment, and CLI flags.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (env: "+EnvConfig+")")
	envFile := fs.String("env-file", ".env", "dotenv file, loaded when present")
	addr := fs.String("addr", "", "HTTP listen address (env: "+EnvAddr+")")
	dbPath := fs.String("db", "", "SQLite database file (env: "+EnvDB+")")
	logLevel := fs.String("log-level", "", "trace|debug|info|warn|error (env: "+EnvLogLevel+")")
	logPretty := fs.Bool("log-pretty", false, "human readable logs (env: "+EnvLogPretty+")")
	memory := fs.Bool("memory", false, "keep tasks in memory only (env: "+EnvMemory+")")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", *envFile, err)
		}
	}

	cfg := Default()
	if path := getConfigValue(*configPath, EnvConfig); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "db":
			cfg.DBPath = *dbPath
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-pretty":
			cfg.LogPretty = *logPretty
		case "memory":
			cfg.Memory = *memory
		}
	})

	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	for key, dst := range map[string]*bool{
		EnvLogPretty: &cfg.LogPretty,
		EnvMemory:    &cfg.Memory,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is empty")
	}
	if !c.Memory && c.DBPath == "" {
		return errors.New("database path is empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}
