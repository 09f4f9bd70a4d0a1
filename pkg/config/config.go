package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/config.yaml"
)

type Config struct {
	AuthorsPageSize           int           `koanf:"authors_page_size" default:"5"`
	BooksPageSize             int           `koanf:"books_page_size" default:"5"`
	BorrowedPageSize          int           `koanf:"borrowed_page_size" default:"10"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	JWTSecret                 string        `koanf:"jwt_secret" required:"true"`
	RenewalDefaultWeeks       int           `koanf:"renewal_default_weeks" default:"3"`
	RenewalMaxWeeks           int           `koanf:"renewal_max_weeks" default:"4"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"3689"`
}

// New loads the config from defaults, then the YAML file named by CONFIG_FILE,
// then the environment. Environment variables are matched by upper-casing the
// key, e.g. DATABASE_FILE_PATH for database_file_path.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := checkRequired(cfg); err != nil {
		return nil, err
	}
	if err := checkPageSizes(cfg); err != nil {
		return nil, err
	}
	if err := checkRenewalWindow(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config backed by an in-memory database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

func checkRequired(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" {
			continue
		}
		if v.Field(i).IsZero() {
			key := toSnakeCase(field.Name)
			return errors.Errorf("missing required config: %s (%s)", strings.ToUpper(key), key)
		}
	}
	return nil
}

// checkPageSizes requires every list page to hold at least one row.
func checkPageSizes(cfg *Config) error {
	sizes := []struct {
		key  string
		size int
	}{
		{"books_page_size", cfg.BooksPageSize},
		{"authors_page_size", cfg.AuthorsPageSize},
		{"borrowed_page_size", cfg.BorrowedPageSize},
	}
	for _, s := range sizes {
		if s.size < 1 {
			return errors.Errorf("%s must be at least 1, got %d", s.key, s.size)
		}
	}
	return nil
}

// checkRenewalWindow keeps the suggested renewal date inside the accepted
// window.
func checkRenewalWindow(cfg *Config) error {
	if cfg.RenewalMaxWeeks < 1 {
		return errors.Errorf("renewal_max_weeks must be at least 1, got %d", cfg.RenewalMaxWeeks)
	}
	if cfg.RenewalDefaultWeeks < 0 || cfg.RenewalDefaultWeeks > cfg.RenewalMaxWeeks {
		return errors.Errorf("renewal_default_weeks must be between 0 and renewal_max_weeks (%d), got %d", cfg.RenewalMaxWeeks, cfg.RenewalDefaultWeeks)
	}
	return nil
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
