package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inveropulse/interact/internal/cli"
	"github.com/inveropulse/interact/pkg/version"
)

func TestRun(t *testing.T) {
	// run executes against os.Args, so only its presence is checked here.
	t.Run("run function exists", func(t *testing.T) {
		_ = run
	})
}

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "interact", root.Use)
		assert.Equal(t, version.GetVersion(), root.Version)

		names := make([]string, 0, len(root.Commands()))
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}
		assert.Subset(t, names, []string{"demo", "window", "replay", "sample", "config"})
	})
}
