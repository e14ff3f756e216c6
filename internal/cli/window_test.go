package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inveropulse/interact/internal/cli"
)

func TestWindowCmd_YAML(t *testing.T) {
	setupCLITest(t)

	tests := []struct {
		name string
		args []string
		want cli.WindowReport
	}{
		{
			name: "scrolled long list",
			args: []string{"--items", "10000", "--item-height", "50", "--height", "600", "--scroll-top", "5000"},
			want: cli.WindowReport{
				ItemCount: 10000, Virtualized: true,
				StartIndex: 95, EndIndex: 117, Rendered: 23,
				OffsetY: 4750, TotalHeight: 500000,
			},
		},
		{
			name: "top of list",
			args: []string{"--items", "10000", "--item-height", "50", "--height", "600"},
			want: cli.WindowReport{
				ItemCount: 10000, Virtualized: true,
				StartIndex: 0, EndIndex: 22, Rendered: 23,
				OffsetY: 0, TotalHeight: 500000,
			},
		},
		{
			name: "short list renders everything",
			args: []string{"--items", "40", "--item-height", "50", "--height", "600", "--scroll-top", "500"},
			want: cli.WindowReport{
				ItemCount: 40, Virtualized: false,
				StartIndex: 0, EndIndex: 39, Rendered: 40,
				OffsetY: 0, TotalHeight: 2000,
			},
		},
		{
			name: "zero overscan",
			args: []string{"--items", "1000", "--item-height", "10", "--height", "100", "--scroll-top", "200", "--overscan", "0"},
			want: cli.WindowReport{
				ItemCount: 1000, Virtualized: true,
				StartIndex: 20, EndIndex: 30, Rendered: 11,
				OffsetY: 200, TotalHeight: 10000,
			},
		},
		{
			name: "empty list",
			args: []string{"--items", "0", "--item-height", "50"},
			want: cli.WindowReport{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"window", "-o", "yaml"}, tt.args...)
			out := mustExecute(t, args...)

			var got cli.WindowReport
			require.NoError(t, yaml.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowCmd_Text(t *testing.T) {
	setupCLITest(t)

	out := mustExecute(t, "window", "--items", "10000", "--item-height", "50", "--height", "600", "--scroll-top", "5000")
	assert.Contains(t, out, "10,000")
	assert.Contains(t, out, "95..117 (23 rows)")
	assert.Contains(t, out, "500,000")
}

func TestWindowCmd_UnknownOutput(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "window", "-o", "xml")
	require.ErrorIs(t, err, cli.ErrUnknownOutput)
}
