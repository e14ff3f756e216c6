package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inveropulse/interact/internal/config"
)

// makeProject creates root/.interact and returns root.
func makeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".interact"), 0755))
	return root
}

func TestResolveProjectDir_FlagOverride(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".interact"), got)
	assert.True(t, filepath.IsAbs(got), "returned path must be absolute")
}

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".interact"), got)
}

func TestResolveProjectDir_EnvVarOverride(t *testing.T) {
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")

	assert.Equal(t, filepath.Join(envDir, ".interact"), got)
}

func TestResolveProjectDir_FlagWithSuffix(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	dir := filepath.Join(t.TempDir(), ".interact")

	got := config.ResolveProjectDir(context.Background(), dir, "")

	assert.Equal(t, dir, got, "suffix must not be appended twice")
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	root := makeProject(t)
	subDir := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	got := config.ResolveProjectDir(context.Background(), "", subDir)

	assert.Equal(t, filepath.Join(root, ".interact"), got)
}

func TestResolveProjectDir_NoProject(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")

	assert.Empty(t, config.ResolveProjectDir(context.Background(), "", ""))
	assert.Empty(t, config.ResolveProjectDir(context.Background(), "", t.TempDir()))
}

func TestNewWithProjectDir_EmptyMatchesNew(t *testing.T) {
	isolateHome(t)

	assert.Equal(t, config.New(), config.NewWithProjectDir(context.Background(), ""))
}

func TestNewWithProjectDir_OverlaysSections(t *testing.T) {
	isolateHome(t)
	root := makeProject(t)
	projectDir := filepath.Join(root, ".interact")
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
virtual:
  item_height: 2
  disable_below: 10
`), 0600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.InDelta(t, 2.0, cfg.Virtual.ItemHeight, 1e-9)
	assert.Equal(t, 10, cfg.Virtual.DisableBelow)
	assert.InDelta(t, 80.0, cfg.Pull.Threshold, 1e-9, "untouched sections keep defaults")
}

func TestNewWithProjectDir_CorruptedYAML(t *testing.T) {
	isolateHome(t)
	root := makeProject(t)
	projectDir := filepath.Join(root, ".interact")
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte("{{{{"), 0600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, config.New(), cfg, "corrupt overlay falls back to global config")
}

func TestNewWithProjectDir_MissingConfigYAML(t *testing.T) {
	isolateHome(t)
	root := makeProject(t)

	cfg := config.NewWithProjectDir(context.Background(), filepath.Join(root, ".interact"))

	assert.Equal(t, config.New(), cfg)
}
