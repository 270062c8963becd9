package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/middleware"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Now: time.Now}
}

func (h *AppointmentHandler) today() string {
	return h.Now().Format(models.DateLayout)
}

// loadAppointment fetches an appointment with its parties. It writes the error
// response itself and returns false when the appointment is unavailable.
func (h *AppointmentHandler) loadAppointment(c *gin.Context, id string) (*models.Appointment, bool) {
	var appointment models.Appointment
	err := h.DB.Preload("User").Preload("Doctor").First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			log.Errorf("load appointment %s: %v", id, err)
			utils.DatabaseError(c, "Failed to load appointment")
		}
		return nil, false
	}
	return &appointment, true
}

// BookAppointmentRequest represents the request body for booking an appointment.
// The patient fields are set only when booking on someone else's behalf.
type BookAppointmentRequest struct {
	DoctorID      string `json:"doctorId" binding:"required"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot      string `json:"timeSlot" binding:"required,timeslot"`
	PatientName   string `json:"patientName"`
	PatientEmail  string `json:"patientEmail" binding:"omitempty,email"`
	PatientMobile string `json:"patientMobile"`
}

// BookAppointment books a slot with a doctor for the user in the path.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	callerRole, _ := middleware.GetUserRoleFromContext(c)
	userID := c.Param("userId")
	if userID != callerID && callerRole != models.RoleAdmin {
		utils.Forbidden(c, "You can only book appointments from your own account")
		return
	}

	if req.Date < h.today() {
		utils.BadRequest(c, "Appointment date must not be in the past")
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			log.Errorf("book: verify doctor %s: %v", req.DoctorID, err)
			utils.DatabaseError(c, "Failed to book appointment")
		}
		return
	}

	var taken int64
	err := h.DB.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time_slot = ? AND status IN ?",
			req.DoctorID, req.Date, req.TimeSlot,
			[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Count(&taken).Error
	if err != nil {
		log.Errorf("book: slot check: %v", err)
		utils.DatabaseError(c, "Failed to book appointment")
		return
	}
	if taken > 0 {
		utils.Conflict(c, utils.CodeSlotTaken, "This time slot is already booked")
		return
	}

	appointment := models.Appointment{
		UserID:        &userID,
		DoctorID:      req.DoctorID,
		PatientName:   req.PatientName,
		PatientEmail:  req.PatientEmail,
		PatientMobile: req.PatientMobile,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		Status:        models.StatusPending,
	}
	if err := h.DB.Create(&appointment).Error; err != nil {
		log.Errorf("book: create: %v", err)
		utils.DatabaseError(c, "Failed to book appointment")
		return
	}

	created, ok := h.loadAppointment(c, appointment.ID)
	if !ok {
		return
	}
	utils.Created(c, "Appointment booked successfully", gin.H{"appointment": created})
}

func (h *AppointmentHandler) list(c *gin.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Appointment, bool) {
	appointments := []models.Appointment{}
	query := h.DB.Preload("User").Preload("Doctor").Order("date asc")
	if err := scope(query).Find(&appointments).Error; err != nil {
		log.Errorf("list appointments: %v", err)
		utils.DatabaseError(c, "Failed to fetch appointments")
		return nil, false
	}
	// Slot labels do not sort as text ("02:00 PM" < "09:00 AM").
	sort.SliceStable(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return models.SlotIndex(a.TimeSlot) < models.SlotIndex(b.TimeSlot)
	})
	return appointments, true
}

// MyAppointments lists the appointments booked by the caller.
func (h *AppointmentHandler) MyAppointments(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	appointments, ok := h.list(c, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// DoctorAppointments lists the appointments assigned to a doctor.
func (h *AppointmentHandler) DoctorAppointments(c *gin.Context) {
	doctorID := c.Param("doctorId")
	callerID, _ := middleware.GetUserIDFromContext(c)
	callerRole, _ := middleware.GetUserRoleFromContext(c)
	if callerRole != models.RoleAdmin && callerID != doctorID {
		utils.Forbidden(c, "You can only view your own appointment queue")
		return
	}

	appointments, ok := h.list(c, func(db *gorm.DB) *gorm.DB {
		return db.Where("doctor_id = ?", doctorID)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// AllAppointments lists every appointment (admin).
func (h *AppointmentHandler) AllAppointments(c *gin.Context) {
	appointments, ok := h.list(c, func(db *gorm.DB) *gorm.DB { return db })
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// UpdateStatusRequest represents the request body for changing an appointment's status.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled rejected"`
}

// UpdateAppointmentStatus changes an appointment's status.
// Patients may only cancel their own bookings; the assigned doctor and admins
// may make any transition the status table allows.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointment(c, c.Param("id"))
	if !ok {
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	callerRole, _ := middleware.GetUserRoleFromContext(c)
	isOwner := appointment.UserID != nil && *appointment.UserID == callerID
	isDoctor := appointment.DoctorID == callerID

	switch {
	case callerRole == models.RoleAdmin, isDoctor:
	case isOwner:
		if req.Status != models.StatusCancelled {
			utils.Forbidden(c, "Patients can only cancel appointments")
			return
		}
	default:
		utils.Forbidden(c, "You are not authorized to update this appointment")
		return
	}

	if !appointment.Status.CanTransition(req.Status) {
		utils.Conflict(c, utils.CodeInvalidTransition,
			"Appointment cannot move from "+string(appointment.Status)+" to "+string(req.Status))
		return
	}

	if err := h.DB.Model(appointment).Update("status", req.Status).Error; err != nil {
		log.Errorf("update appointment %s: %v", appointment.ID, err)
		utils.DatabaseError(c, "Failed to update appointment")
		return
	}
	appointment.Status = req.Status

	utils.Success(c, "Appointment status updated", gin.H{"appointment": appointment})
}

// DeleteAppointment removes an appointment and its health record (admin).
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c, c.Param("id"))
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("appointment_id = ?", appointment.ID).Delete(&models.HealthRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Appointment{}, "id = ?", appointment.ID).Error
	})
	if err != nil {
		log.Errorf("delete appointment %s: %v", appointment.ID, err)
		utils.DatabaseError(c, "Failed to delete appointment")
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}
