package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"OPENCC_CONFIG_FILE", "OPENCC_PRESET", "OPENCC_CONFIG_PATH", "OPENCC_DICT_DIR",
	"INPUT_DIR", "OUTPUT_DIR", "DATA_DIR", "DB_FILE_NAME", "METRICS_ADDR",
	"STABILITY_CHECK_INTERVAL", "STABILITY_QUIET_DURATION", "STABILITY_MAX_WAIT",
	"CONVERT_FILE_NAMES",
}

// isolate 清空相关环境变量，并切换到空目录避免读到 .env
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENCC_PRESET", "tw2sp")
	t.Setenv("INPUT_DIR", filepath.Join(dir, "in"))
	t.Setenv("OUTPUT_DIR", filepath.Join(dir, "out"))
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STABILITY_CHECK_INTERVAL", "250ms")
	t.Setenv("STABILITY_QUIET_DURATION", "not-a-duration")
	t.Setenv("CONVERT_FILE_NAMES", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "tw2sp", cfg.Preset)
	assert.Equal(t, 250*time.Millisecond, cfg.StabilityCheckInterval)
	assert.Equal(t, stabilityQuietDuration, cfg.StabilityQuietDuration)
	assert.Equal(t, stabilityMaxWait, cfg.StabilityMaxWait)
	assert.True(t, cfg.ConvertFileNames)
	assert.Equal(t, filepath.Join(dir, "data", dbFileName), cfg.DBPath)
	assert.DirExists(t, filepath.Join(dir, "in"))
	assert.DirExists(t, filepath.Join(dir, "out"))
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	dir := isolate(t)
	yamlPath := filepath.Join(dir, "opencc.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
preset: s2twp
dict_dir: `+filepath.Join(dir, "dict")+`
input_dir: `+filepath.Join(dir, "in")+`
output_dir: `+filepath.Join(dir, "out")+`
data_dir: `+filepath.Join(dir, "data")+`
stability_max_wait: 2m
metrics_addr: ":9100"
`), 0o644))
	t.Setenv("OPENCC_CONFIG_FILE", yamlPath)
	t.Setenv("METRICS_ADDR", ":9200")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s2twp", cfg.Preset)
	assert.Equal(t, filepath.Join(dir, "dict"), cfg.DictDir)
	assert.Equal(t, 2*time.Minute, cfg.StabilityMaxWait)
	assert.Equal(t, ":9200", cfg.MetricsAddr, "env overrides the file")
}

func TestLoadConfigBadYAML(t *testing.T) {
	dir := isolate(t)
	yamlPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("preset: [unclosed"), 0o644))
	t.Setenv("OPENCC_CONFIG_FILE", yamlPath)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadConfigUnusableDirectory(t *testing.T) {
	dir := isolate(t)
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("INPUT_DIR", filepath.Join(blocker, "in"))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "failed to create input directory")
}

func TestLoadConfigRejectsNestedDirectories(t *testing.T) {
	tests := []struct {
		name     string
		in, out  string
		rejected bool
	}{
		{"output inside input", "in", "in/out", true},
		{"input inside output", "out/in", "out", true},
		{"same directory", "shared", "shared/.", true},
		{"siblings", "in", "out", false},
		{"shared prefix", "in", "in-converted", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			t.Setenv("INPUT_DIR", filepath.Join(dir, tt.in))
			t.Setenv("OUTPUT_DIR", filepath.Join(dir, tt.out))
			t.Setenv("DATA_DIR", filepath.Join(dir, "data"))

			_, err := LoadConfig()
			if tt.rejected {
				assert.ErrorContains(t, err, "must not contain each other")
				assert.NoDirExists(t, filepath.Join(dir, tt.in))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
