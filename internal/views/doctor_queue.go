package views

import (
	"context"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/remotelist"
	"medconnect/internal/session"
)

// DoctorQueue is the list of appointments assigned to the signed-in doctor.
type DoctorQueue struct {
	*remotelist.List[models.Appointment]

	api      AppointmentAPI
	notifier notify.Notifier
}

// NewDoctorQueue returns an unloaded queue for the doctor in sess.
func NewDoctorQueue(api AppointmentAPI, sess *session.Session, n notify.Notifier) *DoctorQueue {
	doctorID := ""
	if sess != nil {
		doctorID = sess.UserID
	}
	fetch := func(ctx context.Context) ([]models.Appointment, error) {
		if doctorID == "" {
			return nil, session.ErrNoSession
		}
		return api.DoctorAppointments(ctx, doctorID)
	}
	return &DoctorQueue{
		List:     remotelist.New[models.Appointment](fetch, MatchAppointment, AppointmentPageSize),
		api:      api,
		notifier: n,
	}
}

// Load fetches the doctor's appointments.
func (v *DoctorQueue) Load(ctx context.Context) error {
	if err := v.List.Load(ctx); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching appointments"))
		return err
	}
	return nil
}

// Actions returns the controls offered for a. Cancelled rows offer nothing,
// pending rows offer accept and reject, and otherwise accept and reject are
// offered when they would change the status. Confirmed rows also get the
// health record editor.
func (v *DoctorQueue) Actions(a models.Appointment) []Action {
	var actions []Action
	switch a.Status {
	case models.StatusCancelled:
		return nil
	case models.StatusPending:
		actions = append(actions, ActionAccept, ActionReject)
	default:
		if a.Status != models.StatusConfirmed {
			actions = append(actions, ActionAccept)
		}
		if a.Status != models.StatusRejected {
			actions = append(actions, ActionReject)
		}
	}
	if a.Status == models.StatusConfirmed {
		actions = append(actions, ActionRecord)
	}
	return actions
}

// Accept confirms appointment id.
func (v *DoctorQueue) Accept(ctx context.Context, id string) error {
	return v.setStatus(ctx, id, ActionAccept, models.StatusConfirmed, "Appointment accepted successfully")
}

// Reject rejects appointment id.
func (v *DoctorQueue) Reject(ctx context.Context, id string) error {
	return v.setStatus(ctx, id, ActionReject, models.StatusRejected, "Appointment rejected successfully")
}

// setStatus sends the change and, once the server accepts it, updates the
// row in place.
func (v *DoctorQueue) setStatus(ctx context.Context, id string, action Action, status models.AppointmentStatus, done string) error {
	a, ok := v.Find(byID(id))
	if !ok {
		return ErrNotFound
	}
	if !hasAction(v.Actions(a), action) {
		return ErrUnavailable
	}

	if _, err := v.api.UpdateAppointmentStatus(ctx, id, status); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error updating appointment status"))
		return err
	}
	v.Update(byID(id), setStatus(status))
	v.notifier.Success(done)
	return nil
}

// OpenHealthRecord returns the editor for the confirmed appointment id,
// prefilled with the saved record when there is one.
func (v *DoctorQueue) OpenHealthRecord(ctx context.Context, id string) (*HealthRecordEditor, error) {
	a, ok := v.Find(byID(id))
	if !ok {
		return nil, ErrNotFound
	}
	if !hasAction(v.Actions(a), ActionRecord) {
		return nil, ErrUnavailable
	}
	return OpenHealthRecord(ctx, v.api, v.notifier, a)
}
