package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/middleware"
	"medconnect/internal/models"
	"medconnect/internal/utils"
)

// maxCertificateSize bounds the uploaded certificate.
const maxCertificateSize = 5 << 20

// DoctorHandler handles doctor applications and their verification.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// ApplyDoctorForm is the multipart form of a doctor application.
type ApplyDoctorForm struct {
	Specialization   string `form:"specialization" binding:"required"`
	RegisterNumber   string `form:"registerNumber" binding:"required,regnum"`
	ConsultingCenter string `form:"consultingCenter" binding:"required"`
	ConsultingPlace  string `form:"consultingPlace" binding:"required"`
}

// ApplyDoctor records the caller's doctor application with its certificate.
// Re-applying replaces the previous details and resets the status to pending.
func (h *DoctorHandler) ApplyDoctor(c *gin.Context) {
	var form ApplyDoctorForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Validation failed: "+utils.FormatValidationError(err))
		return
	}

	header, err := c.FormFile("certificate")
	if err != nil {
		utils.BadRequest(c, "Certificate file is required")
		return
	}
	if header.Size > maxCertificateSize {
		utils.BadRequest(c, "Certificate file is too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.BadRequest(c, "Error reading certificate: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading certificate content")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var info models.DoctorInfo
		if err := tx.Where("user_id = ?", userID).First(&info).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		info.UserID = userID
		info.Specialization = form.Specialization
		info.RegisterNumber = form.RegisterNumber
		info.ConsultingCenter = form.ConsultingCenter
		info.ConsultingPlace = form.ConsultingPlace
		info.Certificate = header.Filename
		info.Status = models.DoctorPending
		if err := tx.Save(&info).Error; err != nil {
			return err
		}

		// A re-application replaces the earlier upload.
		if err := tx.Where("user_id = ?", userID).Delete(&models.DoctorCertificate{}).Error; err != nil {
			return err
		}
		certificate := models.DoctorCertificate{
			UserID:   userID,
			FileName: header.Filename,
			FileType: header.Header.Get("Content-Type"),
			FileData: data,
		}
		return tx.Create(&certificate).Error
	})
	if err != nil {
		log.Errorf("apply doctor %s: %v", userID, err)
		utils.DatabaseError(c, "Failed to submit application")
		return
	}

	utils.Created(c, "Application submitted, awaiting admin approval", nil)
}

// ListApplications lists users whose doctor application has the requested status (admin).
func (h *DoctorHandler) ListApplications(c *gin.Context) {
	status := models.DoctorStatus(c.DefaultQuery("status", string(models.DoctorPending)))
	if !status.Valid() {
		utils.BadRequest(c, "Unknown doctor status "+string(status))
		return
	}

	users := []models.User{}
	err := h.DB.Preload("DoctorInfo").
		Joins("JOIN doctor_infos ON doctor_infos.user_id = users.id").
		Where("doctor_infos.status = ?", status).
		Order("users.name asc").
		Find(&users).Error
	if err != nil {
		log.Errorf("list %s applications: %v", status, err)
		utils.DatabaseError(c, "Failed to fetch doctors")
		return
	}
	c.JSON(http.StatusOK, users)
}

// VerifyDoctorRequest represents the request body for a verification decision.
type VerifyDoctorRequest struct {
	Status models.DoctorStatus `json:"status" binding:"required,oneof=pending active block"`
}

// VerifyDoctor sets the verification status of an application (admin).
// Activation grants the doctor role; blocking takes it away.
func (h *DoctorHandler) VerifyDoctor(c *gin.Context) {
	var req VerifyDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID := c.Param("id")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Preload("DoctorInfo").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if user.DoctorInfo == nil {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(user.DoctorInfo).Update("status", req.Status).Error; err != nil {
			return err
		}

		role := user.Role
		switch req.Status {
		case models.DoctorActive:
			if role != models.RoleAdmin {
				role = models.RoleDoctor
			}
		case models.DoctorBlocked, models.DoctorPending:
			if role == models.RoleDoctor {
				role = models.RoleUser
			}
		}
		if role == user.Role {
			return nil
		}
		return tx.Model(&user).Update("role", role).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor application not found")
			return
		}
		log.Errorf("verify doctor %s: %v", userID, err)
		utils.DatabaseError(c, "Failed to update doctor status")
		return
	}

	utils.Success(c, "Doctor status updated to "+string(req.Status), nil)
}
