package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleUser   Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleUser:
		return true
	}
	return false
}

// User represents an account on the platform. Doctors carry a DoctorInfo.
type User struct {
	BaseModel
	Name     string `gorm:"size:100" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Mobile   string `gorm:"size:20;index" json:"mobile"`
	Password string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role     Role   `gorm:"size:20;default:'user'" json:"role"`
	Photo    string `gorm:"size:255" json:"photo,omitempty"`

	DoctorInfo *DoctorInfo `gorm:"foreignKey:UserID" json:"doctorInfo,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
