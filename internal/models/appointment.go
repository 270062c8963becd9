package models

import "strings"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusRejected  AppointmentStatus = "rejected"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusRejected},
	StatusRejected:  {StatusConfirmed},
}

// CanTransition reports whether the backend accepts moving from s to next.
// Cancelled appointments are terminal.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booking of one time slot with a doctor.
//
// The patient is either the registered user who booked (User) or, when booked on
// someone else's behalf, the free-text PatientName/Email/Mobile fields.
type Appointment struct {
	BaseModel
	UserID        *string           `gorm:"size:36;index" json:"-"`
	DoctorID      string            `gorm:"size:36;index;not null" json:"-"`
	PatientName   string            `gorm:"size:100" json:"patientName,omitempty"`
	PatientEmail  string            `gorm:"size:255" json:"patientEmail,omitempty"`
	PatientMobile string            `gorm:"size:20" json:"patientMobile,omitempty"`
	Date          string            `gorm:"size:10;index" json:"date"`
	TimeSlot      string            `gorm:"size:32" json:"timeSlot"`
	Status        AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`

	// Relations
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Doctor *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// PatientDisplayName returns the free-text patient name, falling back to the
// booking user's name.
func (a *Appointment) PatientDisplayName() string {
	if a.PatientName != "" {
		return a.PatientName
	}
	if a.User != nil {
		return a.User.Name
	}
	return ""
}

// DoctorName returns the assigned doctor's name or "".
func (a *Appointment) DoctorName() string {
	if a.Doctor != nil {
		return a.Doctor.Name
	}
	return ""
}

// FormatDate turns "YYYY-MM-DD" into "DD-MM-YYYY". Anything else is returned as is.
func FormatDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
