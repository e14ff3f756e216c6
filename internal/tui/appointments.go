package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is an appointment's booking state.
type Status int

// Appointment statuses.
const (
	StatusScheduled Status = iota
	StatusConfirmed
	StatusRescheduled
	StatusCancelled
)

// String returns the status label.
func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusConfirmed:
		return "confirmed"
	case StatusRescheduled:
		return "rescheduled"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrCancelled is returned when acting on a cancelled appointment.
var ErrCancelled = errors.New("appointment is cancelled")

// Appointment is one row of the demo schedule.
type Appointment struct {
	ID        string
	Patient   string
	Procedure string
	Start     time.Time
	Status    Status
}

// Initials returns the patient's initials, used as the avatar image.
func (a Appointment) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(a.Patient) {
		b.WriteString(part[:1])
	}
	return b.String()
}

//nolint:gochecknoglobals // fixed synthetic data sets
var (
	firstNames = []string{"Ada", "Bruno", "Chioma", "Dmitri", "Elena", "Farid", "Grace", "Hiro", "Ines", "Jonah", "Keiko", "Luis"}
	lastNames  = []string{"Okafor", "Lindqvist", "Moreau", "Nakamura", "Patel", "Quinn", "Rossi", "Silva", "Tanaka", "Udeh", "Varga"}
	procedures = []string{
		"Colonoscopy", "Endoscopy", "Dental sedation", "Bronchoscopy",
		"MRI sedation", "Cataract surgery", "Minor orthopaedic", "TEE",
	}
)

// scheduleStart is the first slot of the synthetic schedule.
//
//nolint:gochecknoglobals // fixed synthetic data sets
var scheduleStart = time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)

// GeneratePage returns page (zero based) of a deterministic synthetic
// schedule. Appointments are 20 minutes apart.
func GeneratePage(page, size int) []Appointment {
	if page < 0 || size <= 0 {
		return nil
	}
	out := make([]Appointment, size)
	for i := range out {
		n := page*size + i
		out[i] = Appointment{
			ID:        fmt.Sprintf("apt-%05d", n+1),
			Patient:   firstNames[n%len(firstNames)] + " " + lastNames[(n/len(firstNames))%len(lastNames)],
			Procedure: procedures[(n*7)%len(procedures)],
			Start:     scheduleStart.Add(time.Duration(n) * 20 * time.Minute),
			Status:    StatusScheduled,
		}
	}
	return out
}
