package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "notes", cfg.Entry)
	assert.Equal(t, "0s", cfg.Timeout)
	assert.Empty(t, cfg.TmpDir)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_FullFile(t *testing.T) {
	cfg, err := Parse([]byte(`
entry = "docs/readme.txt"
tool_args = ["-o", "-q"]
timeout = "1m30s"
tmp_dir = "/var/tmp"
verbose = true

[env]
LC_ALL = "C"
`))
	require.NoError(t, err)

	assert.Equal(t, "docs/readme.txt", cfg.Entry)
	assert.Equal(t, []string{"-o", "-q"}, cfg.ToolArgs)
	assert.Equal(t, "/var/tmp", cfg.TmpDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, map[string]string{"LC_ALL": "C"}, cfg.Env)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`tmp_dir = "/scratch"`))
	require.NoError(t, err)
	assert.Equal(t, "notes", cfg.Entry)
	assert.Equal(t, "0s", cfg.Timeout)
	assert.Equal(t, "/scratch", cfg.TmpDir)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`entry = `))
	assert.Error(t, err)

	_, err = Parse([]byte(`timeout = "soon"`))
	assert.Error(t, err)

	_, err = Parse([]byte(`timeout = "-1s"`))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unziptester.toml")
	require.NoError(t, os.WriteFile(path, []byte(`entry = "data.bin"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data.bin", cfg.Entry)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
