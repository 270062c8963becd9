package views

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"medconnect/internal/apiclient"
	"medconnect/internal/models"
	"medconnect/internal/notify"
	"medconnect/internal/session"
	"medconnect/internal/validation"
)

// Booking is the appointment booking form for one doctor.
type Booking struct {
	DoctorID string

	Date          string
	TimeSlot      string
	BookForOthers bool
	PatientName   string
	PatientEmail  string
	PatientMobile string

	// OnClose is called after a successful booking.
	OnClose func()

	api      AppointmentAPI
	session  *session.Session
	notifier notify.Notifier
	validate *validator.Validate
}

// NewBooking returns an empty form for doctorID.
func NewBooking(api AppointmentAPI, sess *session.Session, n notify.Notifier, doctorID string) *Booking {
	return &Booking{
		DoctorID: doctorID,
		api:      api,
		session:  sess,
		notifier: n,
		validate: validation.New(),
	}
}

// Slots lists the time slots the form offers.
func (b *Booking) Slots() []string {
	return append([]string(nil), models.TimeSlots...)
}

// Request builds the booking request from the form.
func (b *Booking) Request() apiclient.BookingRequest {
	req := apiclient.BookingRequest{
		DoctorID: b.DoctorID,
		Date:     b.Date,
		TimeSlot: b.TimeSlot,
	}
	if b.BookForOthers {
		req.PatientName = b.PatientName
		req.PatientEmail = b.PatientEmail
		req.PatientMobile = b.PatientMobile
	}
	return req
}

// Submit sends the booking. Slot availability is the server's call; a
// conflict comes back as an error toast.
//
// On success every form field is cleared and OnClose runs. On failure the
// form is left as it was.
func (b *Booking) Submit(ctx context.Context) error {
	if b.DoctorID == "" {
		b.notifier.Error("Doctor not found!")
		return fmt.Errorf("%w: no doctor selected", ErrInvalidForm)
	}
	if b.session == nil {
		b.notifier.Error("Please log in to book an appointment")
		return session.ErrNoSession
	}

	req := b.Request()
	if err := b.validate.Struct(req); err != nil {
		msg := validation.Format(err)
		b.notifier.Error(msg)
		return fmt.Errorf("%w: %s", ErrInvalidForm, msg)
	}

	res, err := b.api.BookAppointment(ctx, b.session.UserID, req)
	if err != nil {
		b.notifier.Error(apiclient.MessageOr(err, "Error booking appointment"))
		return err
	}

	msg := res.Message
	if msg == "" {
		msg = "Appointment booked successfully"
	}
	b.notifier.Success(msg)

	b.reset()
	if b.OnClose != nil {
		b.OnClose()
	}
	return nil
}

func (b *Booking) reset() {
	b.Date = ""
	b.TimeSlot = ""
	b.BookForOthers = false
	b.PatientName = ""
	b.PatientEmail = ""
	b.PatientMobile = ""
}
