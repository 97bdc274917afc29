package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/log-janitor/internal/config"
)

func TestNew_StdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(config.LoggingConfig{Level: "info", TimeFormat: "%Y%m%d"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Debug("hidden")
	log.With("run_id", "abc").Info("compressed", "path", "/var/log/a.log")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=compressed")
	assert.Contains(t, out, "run_id=abc")
	assert.Contains(t, out, "path=/var/log/a.log")
	assert.Regexp(t, regexp.MustCompile(`time=\d{8} `), out)
}

func TestNew_TeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "janitor.log")

	log, closer, err := New(config.LoggingConfig{Level: "debug", File: path}, &buf)
	require.NoError(t, err)

	log.Debug("probe selected", "probe", "procfs")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
	assert.Contains(t, string(data), "probe=procfs")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNew_UnwritableFile(t *testing.T) {
	_, _, err := New(config.LoggingConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")}, &bytes.Buffer{})
	assert.Error(t, err)
}
