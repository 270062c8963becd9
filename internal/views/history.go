package views

import (
	"context"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/remotelist"
)

// PatientHistory is the list of appointments the signed-in user booked.
type PatientHistory struct {
	*remotelist.List[models.Appointment]

	api      AppointmentAPI
	notifier notify.Notifier
}

// NewPatientHistory returns an unloaded history. Call Load to fetch it.
func NewPatientHistory(api AppointmentAPI, n notify.Notifier) *PatientHistory {
	return &PatientHistory{
		List:     remotelist.New[models.Appointment](api.MyAppointments, MatchAppointment, AppointmentPageSize),
		api:      api,
		notifier: n,
	}
}

// Load fetches the caller's appointments.
func (v *PatientHistory) Load(ctx context.Context) error {
	if err := v.List.Load(ctx); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching appointments"))
		return err
	}
	return nil
}

// Actions returns the controls offered for a. Only pending bookings can be
// cancelled by the patient.
func (v *PatientHistory) Actions(a models.Appointment) []Action {
	if a.Status == models.StatusPending {
		return []Action{ActionCancel}
	}
	return nil
}

// Cancel cancels the pending appointment id. On success the row's status
// becomes cancelled locally; nothing is refetched.
func (v *PatientHistory) Cancel(ctx context.Context, id string) error {
	a, ok := v.Find(byID(id))
	if !ok {
		return ErrNotFound
	}
	if !hasAction(v.Actions(a), ActionCancel) {
		return ErrUnavailable
	}

	if _, err := v.api.UpdateAppointmentStatus(ctx, id, models.StatusCancelled); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error cancelling appointment"))
		return err
	}
	v.Update(byID(id), setStatus(models.StatusCancelled))
	v.notifier.Success("Appointment cancelled successfully")
	return nil
}
