package models

// DoctorStatus is the verification state of a doctor application.
type DoctorStatus string

const (
	DoctorPending DoctorStatus = "pending"
	DoctorActive  DoctorStatus = "active"
	DoctorBlocked DoctorStatus = "block"
)

// Valid reports whether s is a known verification state.
func (s DoctorStatus) Valid() bool {
	switch s {
	case DoctorPending, DoctorActive, DoctorBlocked:
		return true
	}
	return false
}

// DoctorInfo holds the professional details submitted with a doctor application.
type DoctorInfo struct {
	BaseModel
	UserID           string       `gorm:"size:36;uniqueIndex" json:"-"`
	Specialization   string       `gorm:"size:100" json:"specialization"`
	RegisterNumber   string       `gorm:"size:6" json:"registerNumber"`
	ConsultingCenter string       `gorm:"size:255" json:"consultingCenter"`
	ConsultingPlace  string       `gorm:"size:255" json:"consultingPlace"`
	Certificate      string       `gorm:"size:255" json:"certificate,omitempty"`
	Status           DoctorStatus `gorm:"size:20;default:'pending'" json:"status"`
}

// DoctorCertificate stores the uploaded registration certificate.
type DoctorCertificate struct {
	BaseModel
	UserID   string `gorm:"size:36;index;not null" json:"-"`
	FileName string `gorm:"not null" json:"fileName"`
	FileType string `gorm:"not null" json:"fileType"`
	FileData []byte `gorm:"not null" json:"-"`
}
