package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/models"
	"medconnect/internal/utils"
)

const searchLimit = 20

// UserHandler handles user listing, search and admin operations.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetUsers handles fetching all users (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	users := []models.User{}
	if err := h.DB.Preload("DoctorInfo").Order("name asc").Find(&users).Error; err != nil {
		log.Errorf("list users: %v", err)
		utils.DatabaseError(c, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// SearchUsers matches users by name, email or specialization (public).
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := models.CleanSearchQuery(c.Query("query"))
	users := []models.User{}
	if query == "" {
		c.JSON(http.StatusOK, users)
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	err := h.DB.Preload("DoctorInfo").
		Joins("LEFT JOIN doctor_infos ON doctor_infos.user_id = users.id").
		Where("LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(doctor_infos.specialization) LIKE ?",
			pattern, pattern, pattern).
		Limit(searchLimit).
		Find(&users).Error
	if err != nil {
		log.Errorf("search users %q: %v", query, err)
		utils.DatabaseError(c, "Failed to search users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) loadUser(c *gin.Context, id string) (*models.User, bool) {
	var user models.User
	if err := h.DB.Preload("DoctorInfo").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			log.Errorf("load user %s: %v", id, err)
			utils.DatabaseError(c, "Failed to load user")
		}
		return nil, false
	}
	return &user, true
}

// DeleteUser handles deleting a user by ID (admin). The user's doctor profile,
// certificates, posts and social links go with it; appointments are kept for
// the record.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := h.loadUser(c, c.Param("id"))
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.DoctorCertificate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.DoctorInfo{}).Error; err != nil {
			return err
		}
		if err := deletePosts(tx, func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", user.ID) }); err != nil {
			return err
		}
		links := []*gorm.DB{
			tx.Where("user_id = ?", user.ID).Delete(&models.VideoPostLike{}),
			tx.Where("user_id = ?", user.ID).Delete(&models.VideoComment{}),
			tx.Where("follower_id = ? OR following_id = ?", user.ID, user.ID).Delete(&models.Follow{}),
			tx.Where("user_id = ? OR reviewer_id = ?", user.ID, user.ID).Delete(&models.Review{}),
		}
		for _, result := range links {
			if result.Error != nil {
				return result.Error
			}
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		log.Errorf("delete user %s: %v", user.ID, err)
		utils.DatabaseError(c, "Failed to delete user")
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}

// PromoteUserRequest represents the request body for changing a user's role.
type PromoteUserRequest struct {
	Role models.Role `json:"role" binding:"required,oneof=user doctor admin"`
}

// PromoteUser changes a user's role (admin).
func (h *UserHandler) PromoteUser(c *gin.Context) {
	var req PromoteUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, ok := h.loadUser(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.DB.Model(user).Update("role", req.Role).Error; err != nil {
		log.Errorf("promote user %s: %v", user.ID, err)
		utils.DatabaseError(c, "Failed to update role")
		return
	}
	user.Role = req.Role

	utils.Success(c, "User role updated to "+string(req.Role), gin.H{"user": user})
}
