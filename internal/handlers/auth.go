package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"medconnect/internal/models"
	"medconnect/internal/utils"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	DB       *gorm.DB
	Secret   string
	TokenTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{DB: db, Secret: secret, TokenTTL: ttl}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles user registration. New accounts always get the user role.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.User
	err := h.DB.Where("email = ? OR mobile = ?", req.Email, req.Mobile).First(&existing).Error
	if err == nil {
		utils.BadRequest(c, "User with this email or mobile already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("register: lookup %s: %v", req.Email, err)
		utils.DatabaseError(c, "Failed to register user")
		return
	}

	user := models.User{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		Role:   models.RoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password")
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Errorf("register: create %s: %v", req.Email, err)
		utils.DatabaseError(c, "Failed to register user")
		return
	}

	utils.Created(c, "User registered successfully", gin.H{"user": user})
}

// LoginRequest represents the request body for user login.
// Identifier is either the email address or the mobile number.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login handles user login and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	err := h.DB.Preload("DoctorInfo").
		Where("email = ? OR mobile = ?", req.Identifier, req.Identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid credentials")
		} else {
			log.Errorf("login: lookup %s: %v", req.Identifier, err)
			utils.DatabaseError(c, "Failed to log in")
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(&user, h.Secret, h.TokenTTL)
	if err != nil {
		log.Errorf("login: %v", err)
		utils.InternalServerError(c, "Failed to generate token")
		return
	}

	utils.Success(c, "Login successful", gin.H{"token": token, "user": user})
}
