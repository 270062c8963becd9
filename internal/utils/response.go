package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in error responses.
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	CodeSlotTaken         = "SLOT_TAKEN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// ErrorData is the body of every error response.
type ErrorData struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Message sends a status with a bare {"message": ...} body merged with extra fields.
func Message(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Success sends a 200 response carrying a message and optional extra fields.
func Success(c *gin.Context, message string, extra gin.H) {
	Message(c, http.StatusOK, message, extra)
}

// Created sends a 201 response carrying a message and optional extra fields.
func Created(c *gin.Context, message string, extra gin.H) {
	Message(c, http.StatusCreated, message, extra)
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, code, errorMessage string) {
	c.JSON(statusCode, ErrorData{
		Status:  statusCode,
		Message: errorMessage,
		Code:    code,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, CodeValidationError, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, CodeForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, CodeResourceNotFound, errorMessage)
}

// Conflict sends a 409 Conflict error response with the given code.
func Conflict(c *gin.Context, code, errorMessage string) {
	Error(c, http.StatusConflict, code, errorMessage)
}

// DatabaseError sends a 500 response for a failed query. The cause is logged
// by the caller, never echoed to the client.
func DatabaseError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, CodeDatabaseError, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, CodeInternalError, errorMessage)
}
