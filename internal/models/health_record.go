package models

// HealthRecord is the doctor's diagnosis and prescription note for one
// confirmed appointment.
type HealthRecord struct {
	BaseModel
	AppointmentID string   `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	DoctorID      string   `gorm:"size:36;index" json:"-"`
	Diseases      []string `gorm:"type:text;serializer:json" json:"diseases"`
	Drugs         []string `gorm:"type:text;serializer:json" json:"drugs"`
	Notes         string   `gorm:"type:text" json:"notes"`
}
