package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.False(t, cfg.DumpEnabled())
	assert.Equal(t, DefaultOutputPath, cfg.OutputPath())
	assert.True(t, cfg.Has(KeyStageOutputDump))
}

func TestGetDottedPath(t *testing.T) {
	cfg := FromMap(map[string]any{
		"helloStage": map[string]any{"suffix": "Scott"},
	})

	v, ok := cfg.Get("helloStage.suffix")
	require.True(t, ok)
	assert.Equal(t, "Scott", v)

	_, ok = cfg.Get("helloStage.missing")
	assert.False(t, ok)

	_, ok = cfg.Get("missing.entirely")
	assert.False(t, ok)

	// Descending through a scalar must not panic.
	_, ok = cfg.Get("helloStage.suffix.deeper")
	assert.False(t, ok)
}

func TestReadFilesMerges(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `
surround:
  enable_stage_output_dump: true
helloStage:
  suffix: Scott
  retries: 3
`)
	override := writeFile(t, dir, "override.yaml", `
helloStage:
  suffix: Jane
`)

	cfg := New()
	require.NoError(t, cfg.ReadFiles(base, override))

	assert.True(t, cfg.DumpEnabled())
	assert.Equal(t, "Jane", cfg.String("helloStage.suffix"))
	assert.Equal(t, 3, cfg.Int("helloStage.retries"))
}

func TestReadFilesErrors(t *testing.T) {
	cfg := New()
	assert.Error(t, cfg.ReadFiles("does-not-exist.yaml"))

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "helloStage: [unclosed")
	assert.Error(t, cfg.ReadFiles(bad))
}

func TestTypedGetters(t *testing.T) {
	cfg := FromMap(map[string]any{
		"stage": map[string]any{
			"timeout": "30s",
			"limit":   int64(7),
			"ratio":   0.5,
		},
	})

	assert.Equal(t, 30*time.Second, cfg.Duration("stage.timeout"))
	assert.Equal(t, 7, cfg.Int("stage.limit"))
	assert.Zero(t, cfg.Duration("stage.missing"))
	assert.Zero(t, cfg.Int("stage.ratio.deeper"))
	assert.Equal(t, "", cfg.String("stage.limit"))
	assert.False(t, cfg.Bool("stage.timeout"))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SURROUND_ENABLE_STAGE_OUTPUT_DUMP", "yes")
	t.Setenv("SURROUND_OUTPUT_PATH", "artifacts")

	cfg := New()
	cfg.ApplyEnvOverrides()

	assert.True(t, cfg.DumpEnabled())
	assert.Equal(t, "artifacts", cfg.OutputPath())
}

func TestApplyEnvOverridesIgnoresGarbage(t *testing.T) {
	t.Setenv("SURROUND_ENABLE_STAGE_OUTPUT_DUMP", "maybe")

	cfg := New()
	cfg.ApplyEnvOverrides()

	assert.False(t, cfg.DumpEnabled())
}

func TestLoadForProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, `
helloStage:
  suffix: Scott
output_path: out
`)

	cfg, err := LoadForProject(dir)
	require.NoError(t, err)

	assert.Equal(t, "Scott", cfg.String("helloStage.suffix"))

	info, err := os.Stat(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadForProjectWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadForProject(dir)
	require.NoError(t, err)

	// Defaults apply and the default output directory is created.
	assert.False(t, cfg.DumpEnabled())
	info, err := os.Stat(filepath.Join(dir, DefaultOutputPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadForProjectBadRoot(t *testing.T) {
	_, err := LoadForProject(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
