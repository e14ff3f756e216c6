package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inveropulse/interact/internal/cli"
	"github.com/inveropulse/interact/internal/config"
)

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out := mustExecute(t, "config", "init")
	assert.Contains(t, out, "Configuration initialized successfully")

	path := filepath.Join(home, "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.CurrentSchemaVersion, cfg.SchemaVersion)
	assert.InDelta(t, 80.0, cfg.Gesture.Threshold, 0)
}

func TestConfigInit_ExistingRequiresForce(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gesture:\n  threshold: 42\n"), 0o600))

	_, err := execute(t, "config", "init")
	require.ErrorIs(t, err, cli.ErrConfigExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "42", "file must be untouched without --force")

	mustExecute(t, "config", "init", "--force")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, cfg.Gesture.Threshold, 0)
}

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()

	out := mustExecute(t, "config", "init", "--project", "--project-dir", projectRoot)

	path := filepath.Join(projectRoot, ".interact", "config.yaml")
	assert.Contains(t, out, path)
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	setupCLITest(t)

	path := filepath.Join(t.TempDir(), "interact.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pull:\n  threshold: 60\n  pull_distance: 90\n"), 0o600))

	out := mustExecute(t, "config", "show", "--config", path)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 60.0, got.Pull.Threshold, 0)
	assert.InDelta(t, 90.0, got.Pull.PullDistance, 0)
	assert.InDelta(t, 80.0, got.Gesture.Threshold, 0, "unset sections keep defaults")
	assert.Contains(t, out, "min_refresh_duration: 500ms")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "defaults", content: ""},
		{name: "negative swipe threshold", content: "gesture:\n  threshold: -1\n", wantErr: config.ErrInvalidThreshold},
		{name: "pull distance below threshold", content: "pull:\n  threshold: 100\n  pull_distance: 50\n", wantErr: config.ErrInvalidPullDistance},
		{name: "ratio out of range", content: "visibility:\n  threshold: 1.5\n", wantErr: config.ErrInvalidRatio},
		{name: "future schema", content: "schema_version: 2.0.0\n", wantErr: config.ErrUnsupportedSchemaVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			path := filepath.Join(t.TempDir(), "interact.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			out, err := execute(t, "config", "validate", "--verbose", "--config", path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Configuration is valid")
			assert.Contains(t, out, "Swipe threshold: 80px")
		})
	}
}
