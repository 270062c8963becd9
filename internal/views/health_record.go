package views

import (
	"context"
	"strings"
	"time"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
)

// HealthRecordEditor edits the doctor's record of one confirmed appointment.
type HealthRecordEditor struct {
	Appointment models.Appointment

	Diseases []string
	Drugs    []string
	Notes    string

	// Now is the clock used to decide whether the record is still editable.
	Now func() time.Time

	api      AppointmentAPI
	notifier notify.Notifier
}

// OpenHealthRecord loads the saved record of a into a new editor. A missing
// record yields an empty editor.
func OpenHealthRecord(ctx context.Context, api AppointmentAPI, n notify.Notifier, a models.Appointment) (*HealthRecordEditor, error) {
	e := &HealthRecordEditor{Appointment: a, Now: time.Now, api: api, notifier: n}

	record, err := api.HealthRecord(ctx, a.ID)
	switch {
	case err == nil:
		e.Diseases = append([]string(nil), record.Diseases...)
		e.Drugs = append([]string(nil), record.Drugs...)
		e.Notes = record.Notes
	case apiclient.IsNotFound(err):
	default:
		n.Error(apiclient.MessageOr(err, "Error fetching health record"))
		return nil, err
	}
	return e, nil
}

// CanSave reports whether the appointment date is today or later.
func (e *HealthRecordEditor) CanSave() bool {
	return e.Appointment.Date >= e.Now().Format(models.DateLayout)
}

// AddDisease appends a non-blank entry to the disease list.
func (e *HealthRecordEditor) AddDisease(name string) {
	e.Diseases = appendEntry(e.Diseases, name)
}

// AddDrug appends a non-blank entry to the drug list.
func (e *HealthRecordEditor) AddDrug(name string) {
	e.Drugs = appendEntry(e.Drugs, name)
}

// RemoveDisease drops the entry at i. Out-of-range indexes are ignored.
func (e *HealthRecordEditor) RemoveDisease(i int) {
	e.Diseases = removeEntry(e.Diseases, i)
}

// RemoveDrug drops the entry at i. Out-of-range indexes are ignored.
func (e *HealthRecordEditor) RemoveDrug(i int) {
	e.Drugs = removeEntry(e.Drugs, i)
}

// Save writes the record and loads the saved version back into the editor.
func (e *HealthRecordEditor) Save(ctx context.Context) error {
	if !e.CanSave() {
		e.notifier.Error("The appointment date has passed")
		return ErrRecordLocked
	}

	in := apiclient.HealthRecordInput{
		Diseases: append([]string{}, e.Diseases...),
		Drugs:    append([]string{}, e.Drugs...),
		Notes:    e.Notes,
	}
	record, msg, err := e.api.SaveHealthRecord(ctx, e.Appointment.ID, in)
	if err != nil {
		e.notifier.Error(apiclient.MessageOr(err, "Error saving health record"))
		return err
	}
	if record != nil {
		e.Diseases = append([]string(nil), record.Diseases...)
		e.Drugs = append([]string(nil), record.Drugs...)
		e.Notes = record.Notes
	}
	if msg == "" {
		msg = "Health record saved"
	}
	e.notifier.Success(msg)
	return nil
}

func appendEntry(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	return append(list, s)
}

func removeEntry(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return list
	}
	return append(list[:i:i], list[i+1:]...)
}
