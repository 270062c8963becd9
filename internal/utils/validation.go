package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"medconnect/internal/validation"
)

// UseWithGin registers the domain validators on gin's binding engine.
func UseWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}
	validation.Register(v)
	return nil
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	return validation.Format(err)
}

// BindAndValidate binds the request body to a struct and validates it through
// gin's binding tags. If it fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			BadRequest(c, "Validation failed: "+FormatValidationError(err))
			return false
		}
		BadRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}
