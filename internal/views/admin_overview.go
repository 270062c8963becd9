package views

import (
	"context"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/remotelist"
)

// AdminOverview is the list of every appointment on the platform.
type AdminOverview struct {
	*remotelist.List[models.Appointment]

	api      AppointmentAPI
	notifier notify.Notifier
}

// NewAdminOverview returns an unloaded overview.
func NewAdminOverview(api AppointmentAPI, n notify.Notifier) *AdminOverview {
	return &AdminOverview{
		List:     remotelist.New[models.Appointment](api.AllAppointments, MatchAppointment, AppointmentPageSize),
		api:      api,
		notifier: n,
	}
}

// Load fetches all appointments.
func (v *AdminOverview) Load(ctx context.Context) error {
	if err := v.List.Load(ctx); err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error fetching appointments"))
		return err
	}
	return nil
}

// Actions returns the controls offered for a. Any appointment can be deleted.
func (v *AdminOverview) Actions(models.Appointment) []Action {
	return []Action{ActionDelete}
}

// Delete removes appointment id. On success the row is dropped locally.
func (v *AdminOverview) Delete(ctx context.Context, id string) error {
	if _, ok := v.Find(byID(id)); !ok {
		return ErrNotFound
	}

	msg, err := v.api.DeleteAppointment(ctx, id)
	if err != nil {
		v.notifier.Error(apiclient.MessageOr(err, "Error deleting appointment"))
		return err
	}
	v.Remove(byID(id))
	if msg == "" {
		msg = "Appointment deleted successfully"
	}
	v.notifier.Success(msg)
	return nil
}
