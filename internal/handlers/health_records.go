package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/middleware"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

// HealthRecordHandler handles the doctor's notes attached to appointments.
// It shares the appointment handler's database and clock.
type HealthRecordHandler struct {
	*AppointmentHandler
}

// NewHealthRecordHandler creates a new HealthRecordHandler.
func NewHealthRecordHandler(appointments *AppointmentHandler) *HealthRecordHandler {
	return &HealthRecordHandler{AppointmentHandler: appointments}
}

// GetHealthRecord returns the record of an appointment to its doctor, its
// patient or an admin.
func (h *HealthRecordHandler) GetHealthRecord(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, c.Param("appointmentId"))
	if !ok {
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	callerRole, _ := middleware.GetUserRoleFromContext(c)
	isOwner := appointment.UserID != nil && *appointment.UserID == callerID
	if callerRole != models.RoleAdmin && !isOwner && appointment.DoctorID != callerID {
		utils.Forbidden(c, "You are not authorized to view this health record")
		return
	}

	var record models.HealthRecord
	if err := h.DB.First(&record, "appointment_id = ?", appointment.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Health record not found")
		} else {
			log.Errorf("load health record for %s: %v", appointment.ID, err)
			utils.DatabaseError(c, "Failed to load health record")
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// SaveHealthRecordRequest represents the request body for writing a health record.
type SaveHealthRecordRequest struct {
	Diseases []string `json:"diseases"`
	Drugs    []string `json:"drugs"`
	Notes    string   `json:"notes"`
}

// SaveHealthRecord creates or replaces the record of a confirmed appointment.
// Only the assigned doctor may write it, and not after the appointment date.
func (h *HealthRecordHandler) SaveHealthRecord(c *gin.Context) {
	var req SaveHealthRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointment(c, c.Param("appointmentId"))
	if !ok {
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	if appointment.DoctorID != callerID {
		utils.Forbidden(c, "Only the assigned doctor can write this health record")
		return
	}
	if appointment.Status != models.StatusConfirmed {
		utils.BadRequest(c, "Health records can only be written for confirmed appointments")
		return
	}
	if appointment.Date < h.today() {
		utils.BadRequest(c, "The appointment date has passed")
		return
	}

	var record models.HealthRecord
	err := h.DB.First(&record, "appointment_id = ?", appointment.ID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("load health record for %s: %v", appointment.ID, err)
		utils.DatabaseError(c, "Failed to save health record")
		return
	}

	record.AppointmentID = appointment.ID
	record.DoctorID = callerID
	record.Diseases = nonNil(req.Diseases)
	record.Drugs = nonNil(req.Drugs)
	record.Notes = req.Notes

	if err := h.DB.Save(&record).Error; err != nil {
		log.Errorf("save health record for %s: %v", appointment.ID, err)
		utils.DatabaseError(c, "Failed to save health record")
		return
	}

	utils.Success(c, "Health record saved", gin.H{"record": record})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
