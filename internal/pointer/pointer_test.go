package pointer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inveropulse/interact/internal/pointer"
)

type recorder struct {
	calls []string
	claim bool
	err   error
}

func (r *recorder) Down(_, _ float64) {
	r.calls = append(r.calls, "down")
}

func (r *recorder) Move(_, _ float64) bool {
	r.calls = append(r.calls, "move")
	return r.claim
}

func (r *recorder) Up() error {
	r.calls = append(r.calls, "up")
	return r.err
}

func (r *recorder) Cancel() {
	r.calls = append(r.calls, "cancel")
}

func TestParseKind(t *testing.T) {
	for _, k := range []pointer.Kind{pointer.Down, pointer.Move, pointer.Up, pointer.Cancel} {
		got, err := pointer.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := pointer.ParseKind("  MOVE ")
	require.NoError(t, err)
	assert.Equal(t, pointer.Move, got)

	_, err = pointer.ParseKind("tap")
	assert.Error(t, err)
	assert.Equal(t, "kind(9)", pointer.Kind(9).String())
}

func TestDispatch(t *testing.T) {
	errAction := errors.New("boom")
	r := &recorder{claim: true, err: errAction}

	claimed, err := pointer.Dispatch(r, pointer.Event{Kind: pointer.Down})
	assert.False(t, claimed)
	require.NoError(t, err)

	claimed, err = pointer.Dispatch(r, pointer.Event{Kind: pointer.Move, X: 20})
	assert.True(t, claimed)
	require.NoError(t, err)

	_, err = pointer.Dispatch(r, pointer.Event{Kind: pointer.Up})
	require.ErrorIs(t, err, errAction)

	_, err = pointer.Dispatch(r, pointer.Event{Kind: pointer.Cancel})
	require.NoError(t, err)

	assert.Equal(t, []string{"down", "move", "up", "cancel"}, r.calls)
}
