package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/log-janitor/internal/config"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func seed(t *testing.T, dir string) string {
	t.Helper()
	logs := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logs, 0o755))
	p := filepath.Join(logs, "a.log")
	require.NoError(t, os.WriteFile(p, []byte("hello\n"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))
	return p
}

func TestRun_CompressesAndReports(t *testing.T) {
	dir := t.TempDir()
	src := seed(t, dir)
	prom := filepath.Join(dir, "janitor.prom")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
patterns: [%q]
maxAge: 600
openFileProbe: none
timestampSuffix:
  enabled: false
metrics:
  textfile: %q
`, filepath.Join(dir, "logs", "*.log"), prom))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfgPath, false, &out))

	assert.NoFileExists(t, src)
	assert.FileExists(t, src+".gz")
	assert.Contains(t, out.String(), "Compression")
	assert.Contains(t, out.String(), "Cleanup")
	assert.Contains(t, out.String(), "run_id=")
	assert.FileExists(t, prom)
}

func TestRun_DryLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	src := seed(t, dir)
	cfgPath := writeConfig(t, dir, fmt.Sprintf("patterns: [%q]\nmaxAge: 600\nopenFileProbe: none\n", filepath.Join(dir, "logs", "*.log")))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfgPath, true, &out))

	assert.FileExists(t, src)
	assert.Regexp(t, `(?m)^  Compressed: +1$`, out.String())
}

func TestRun_InvalidTimestampType(t *testing.T) {
	dir := t.TempDir()
	src := seed(t, dir)
	cfgPath := writeConfig(t, dir, fmt.Sprintf("patterns: [%q]\ntimestampType: btime\n", filepath.Join(dir, "logs", "*.log")))

	err := run(context.Background(), cfgPath, false, &bytes.Buffer{})
	require.ErrorIs(t, err, config.ErrInvalidTimestampType)
	assert.FileExists(t, src)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	src := seed(t, dir)
	cfgPath := writeConfig(t, dir, fmt.Sprintf("patterns: [%q]\nlogging:\n  level: verbose\n", filepath.Join(dir, "logs", "*.log")))

	err := run(context.Background(), cfgPath, false, &bytes.Buffer{})
	var cerr *config.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "logging.level", cerr.Field)
	assert.FileExists(t, src)
}

func TestRun_UnwritableLogFileFallsBackToStdout(t *testing.T) {
	dir := t.TempDir()
	src := seed(t, dir)
	logFile := filepath.Join(dir, "missing", "janitor.log")
	cfgPath := writeConfig(t, dir, fmt.Sprintf("patterns: [%q]\nmaxAge: 600\nopenFileProbe: none\nlogging:\n  file: %q\n",
		filepath.Join(dir, "logs", "*.log"), logFile))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfgPath, false, &out))

	assert.Contains(t, out.String(), "log file unavailable")
	assert.NoFileExists(t, logFile)
	assert.NoFileExists(t, src)
	matches, err := filepath.Glob(src + ".*.gz")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	require.NotNil(t, cmd.Flags().Lookup("dry"))

	cmd.SetArgs([]string{"unexpected"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_Dry(t *testing.T) {
	dir := t.TempDir()
	src := seed(t, dir)
	t.Setenv(config.EnvPath, writeConfig(t, dir, fmt.Sprintf("patterns: [%q]\nmaxAge: 600\nopenFileProbe: none\n", filepath.Join(dir, "logs", "*.log"))))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--dry"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.FileExists(t, src)
	assert.Contains(t, out.String(), "dry_run=true")
}
