package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
)

type Config struct {
	Host            string
	Port            uint
	Addr            string
	DBUrl           string
	SchemaPath      string
	MaxPageSize     int
	ShutdownTimeout time.Duration
	LogFormat       string
	Debug           bool
}

// RegisterFlags binds cfg to fs. Defaults come from the environment when
// the matching variable is set.
func (cfg *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.Host, "host", getEnv("HOST", "0.0.0.0"), "listen host name")
	fs.UintVar(&cfg.Port, "port", getEnvUint("PORT", 3001), "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", getEnv("DATABASE_URL", getEnv("MONGODB_URI", "qform.sqlite")),
		"path to SQLite3 DB file, or a mongodb:// URL")
	fs.StringVar(&cfg.SchemaPath, "schema", getEnv("FORM_SCHEMA", ""), "form schema YAML file (default: embedded onboarding form)")
	fs.IntVar(&cfg.MaxPageSize, "max-page-size", 100, "largest accepted page size when listing submissions")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed to drain requests on shutdown")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "log output format: text or json")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
}

// Finish validates the parsed flags and derives Addr.
func (cfg *Config) Finish() error {
	var result *multierror.Error

	if cfg.Port == 0 || cfg.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid --port %d", cfg.Port))
	}
	if cfg.DBUrl == "" {
		result = multierror.Append(result, errors.New("missing parameter --db-url"))
	}
	if cfg.MaxPageSize < 1 {
		result = multierror.Append(result, fmt.Errorf("invalid --max-page-size %d", cfg.MaxPageSize))
	}
	if cfg.ShutdownTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("invalid --shutdown-timeout %s", cfg.ShutdownTimeout))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("invalid --log-format %q", cfg.LogFormat))
	}

	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))

	return result.ErrorOrNil()
}

var reAnyHost = regexp.MustCompile(`^(0\.0\.0\.0|\[::\])`)

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = reAnyHost.ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvUint(key string, fallback uint) uint {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fallback
	}
	return uint(n)
}
