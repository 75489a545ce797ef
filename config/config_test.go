package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()

	var cfg Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cfg, cfg.Finish()
}

func TestDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("FORM_SCHEMA", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3001", cfg.Addr)
	assert.Equal(t, "qform.sqlite", cfg.DBUrl)
	assert.Equal(t, "", cfg.SchemaPath)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "http://localhost:3001", cfg.Url())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/forms")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "mongodb://db:27017/forms", cfg.DBUrl)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := parse(t, "--host", "127.0.0.1", "--port", "9000", "--db-url", "x.sqlite", "--debug")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "x.sqlite", cfg.DBUrl)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Url())
}

func TestFinishReportsEveryProblem(t *testing.T) {
	_, err := parse(t, "--port", "0", "--db-url", "", "--max-page-size", "0", "--log-format", "xml")
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "invalid --port 0")
	assert.Contains(t, msg, "missing parameter --db-url")
	assert.Contains(t, msg, "invalid --max-page-size 0")
	assert.Contains(t, msg, `invalid --log-format "xml"`)
}
