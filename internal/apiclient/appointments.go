package apiclient

import (
	"context"
	"net/http"

	"medconnect/internal/models"
)

// BookingRequest is the body of an appointment booking. The patient fields
// are only sent when booking on someone else's behalf.
type BookingRequest struct {
	DoctorID      string `json:"doctorId" validate:"required"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TimeSlot      string `json:"timeSlot" validate:"omitempty,timeslot"`
	PatientName   string `json:"patientName,omitempty"`
	PatientEmail  string `json:"patientEmail,omitempty" validate:"omitempty,email"`
	PatientMobile string `json:"patientMobile,omitempty"`
}

// BookingResult is the response to a successful booking.
type BookingResult struct {
	Message     string              `json:"message"`
	Appointment *models.Appointment `json:"appointment"`
}

// BookAppointment books an appointment from the account userID.
func (c *Client) BookAppointment(ctx context.Context, userID string, req BookingRequest) (*BookingResult, error) {
	var out BookingResult
	if err := c.do(ctx, http.MethodPost, "book/appointments/book/"+userID, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyAppointments lists the appointments booked by the caller.
func (c *Client) MyAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := c.do(ctx, http.MethodGet, "book/my-appointments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoctorAppointments lists the appointments assigned to doctorID.
func (c *Client) DoctorAppointments(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := c.do(ctx, http.MethodGet, "book/doctor/"+doctorID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllAppointments lists every appointment on the platform (admin).
func (c *Client) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, "book/all-appointments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// UpdateAppointmentStatus sets the status of appointment id and returns the
// server's message.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (string, error) {
	in := struct {
		Status models.AppointmentStatus `json:"status"`
	}{status}
	var out messageBody
	if err := c.do(ctx, http.MethodPut, "book/appointments/"+id, nil, in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DeleteAppointment removes appointment id (admin).
func (c *Client) DeleteAppointment(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodDelete, "book/appointment/"+id, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// HealthRecordInput is the editable part of a health record.
type HealthRecordInput struct {
	Diseases []string `json:"diseases"`
	Drugs    []string `json:"drugs"`
	Notes    string   `json:"notes"`
}

// HealthRecord fetches the record of an appointment. A missing record is an
// *Error for which IsNotFound holds.
func (c *Client) HealthRecord(ctx context.Context, appointmentID string) (*models.HealthRecord, error) {
	var out models.HealthRecord
	if err := c.do(ctx, http.MethodGet, "book/health-record/"+appointmentID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveHealthRecord creates or replaces the record of an appointment.
func (c *Client) SaveHealthRecord(ctx context.Context, appointmentID string, in HealthRecordInput) (*models.HealthRecord, string, error) {
	var out struct {
		Message string               `json:"message"`
		Record  *models.HealthRecord `json:"record"`
	}
	if err := c.do(ctx, http.MethodPost, "book/health-record/"+appointmentID, nil, in, &out); err != nil {
		return nil, "", err
	}
	return out.Record, out.Message, nil
}
