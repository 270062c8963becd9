// Package views holds the view-models behind the appointment, doctor, admin
// and social screens. Each view keeps its own copy of the server data, talks to
// the API through a narrow interface, and reports every outcome to a
// notify.Notifier.
//
// Mutations are mirrored into the local copy only after the server accepted
// them; each mutating method documents what it changes locally.
package views

import (
	"context"
	"errors"
	"strings"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
)

// AppointmentPageSize is the page size of every appointment list.
const AppointmentPageSize = 10

var (
	// ErrInvalidForm is returned when a form fails client-side checks.
	ErrInvalidForm = errors.New("views: invalid form")
	// ErrUnavailable is returned for an action that is not offered for the
	// item in its current state.
	ErrUnavailable = errors.New("views: action not available")
	// ErrNotFound is returned for an id that is not in the view's list.
	ErrNotFound = errors.New("views: no such item")
	// ErrRecordLocked is returned when saving a health record after the
	// appointment date.
	ErrRecordLocked = errors.New("views: appointment date has passed")
)

// AppointmentAPI is the part of the API client used by the appointment views.
type AppointmentAPI interface {
	BookAppointment(ctx context.Context, userID string, req apiclient.BookingRequest) (*apiclient.BookingResult, error)
	MyAppointments(ctx context.Context) ([]models.Appointment, error)
	DoctorAppointments(ctx context.Context, doctorID string) ([]models.Appointment, error)
	AllAppointments(ctx context.Context) ([]models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (string, error)
	DeleteAppointment(ctx context.Context, id string) (string, error)
	HealthRecord(ctx context.Context, appointmentID string) (*models.HealthRecord, error)
	SaveHealthRecord(ctx context.Context, appointmentID string, in apiclient.HealthRecordInput) (*models.HealthRecord, string, error)
}

// Action is a control offered on a list row.
type Action string

const (
	ActionCancel Action = "cancel"
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionRecord Action = "record"
	ActionDelete Action = "delete"
)

func hasAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

// MatchAppointment reports whether term occurs in the patient name, doctor
// name, time slot, status or formatted date of a. term must be lower-case.
func MatchAppointment(a models.Appointment, term string) bool {
	fields := []string{
		a.PatientDisplayName(),
		a.DoctorName(),
		a.TimeSlot,
		string(a.Status),
		models.FormatDate(a.Date),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func byID(id string) func(models.Appointment) bool {
	return func(a models.Appointment) bool { return a.ID == id }
}

func setStatus(status models.AppointmentStatus) func(*models.Appointment) {
	return func(a *models.Appointment) { a.Status = status }
}
