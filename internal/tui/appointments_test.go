package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePage(t *testing.T) {
	first := GeneratePage(0, 3)
	require.Len(t, first, 3)
	assert.Equal(t, "apt-00001", first[0].ID)
	assert.Equal(t, "Ada Okafor", first[0].Patient)
	assert.Equal(t, first[0].Start.Add(20*time.Minute), first[1].Start)
	assert.Equal(t, StatusScheduled, first[2].Status)

	second := GeneratePage(1, 3)
	assert.Equal(t, "apt-00004", second[0].ID)
	assert.Equal(t, GeneratePage(1, 3), second, "pages are deterministic")

	assert.Nil(t, GeneratePage(-1, 3))
	assert.Nil(t, GeneratePage(0, 0))
}

func TestAppointment_Initials(t *testing.T) {
	assert.Equal(t, "AO", Appointment{Patient: "Ada Okafor"}.Initials())
	assert.Empty(t, Appointment{}.Initials())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "cancelled", StatusCancelled.String())
	assert.Equal(t, "unknown", Status(42).String())
}
