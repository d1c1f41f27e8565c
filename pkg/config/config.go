package config

import (
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
	EnvironmentProduction  = "production"

	configFileEnv     = "CONFIG_FILE"
	defaultConfigFile = "config.yaml"
)

type Config struct {
	Environment string `koanf:"environment"`

	ServerHost string `koanf:"server_host"`
	ServerPort int    `koanf:"server_port"`

	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`

	JWTSecret       string        `koanf:"jwt_secret" required:"true"`
	SessionTTL      time.Duration `koanf:"session_ttl"`
	DevLoginEnabled bool          `koanf:"dev_login_enabled"`
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	FallbackDir           string `koanf:"fallback_dir"`
	FallbackExportOnStart bool   `koanf:"fallback_export_on_start"`

	UploadDir      string `koanf:"upload_dir"`
	UploadMaxBytes int64  `koanf:"upload_max_bytes"`
}

// IsDevelopment reports whether the server runs with development conveniences.
func (cfg *Config) IsDevelopment() bool {
	return cfg.Environment == EnvironmentDevelopment
}

func defaultConfig(environment string) *Config {
	return &Config{
		Environment:               environment,
		ServerHost:                "0.0.0.0",
		ServerPort:                5000,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseMaxRetries:        5,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		SessionTTL:                7 * 24 * time.Hour,
		DevLoginEnabled:           environment == EnvironmentDevelopment,
		LoginRateLimit:            10,
		CORSOrigins:               []string{"*"},
		FallbackDir:               "./data/fallback",
		UploadDir:                 "./uploads",
		UploadMaxBytes:            10 << 20,
	}
}

// New loads the configuration. Defaults are applied first, then the YAML file
// named by CONFIG_FILE (config.yaml when unset), then environment variables
// whose lower-cased names match the config keys.
func New() (*Config, error) {
	overrides := koanf.New(".")

	configFile := os.Getenv(configFileEnv)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := overrides.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	if err := overrides.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load environment config")
	}

	environment := overrides.String("environment")
	if environment == "" {
		environment = EnvironmentDevelopment
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(environment), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load config defaults")
	}
	if err := k.Merge(overrides); err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Environment = environment
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests: in-memory database, fixed
// secret, no file or environment lookups.
func NewForTest() *Config {
	cfg := defaultConfig(EnvironmentTest)
	cfg.ServerHost = "127.0.0.1"
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.JWTSecret = "test-secret"
	cfg.DevLoginEnabled = true
	return cfg
}

func (cfg *Config) validate() error {
	var missing []string
	if cfg.DatabaseFilePath == "" {
		missing = append(missing, describeKey("DatabaseFilePath"))
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, describeKey("JWTSecret"))
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	return nil
}

func describeKey(field string) string {
	key := toSnakeCase(field)
	return strings.ToUpper(key) + " (" + key + ")"
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}

// splitList expands comma separated values, which is how lists arrive from
// environment variables.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
