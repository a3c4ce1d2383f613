package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http" // HTTP status codes
	"reflect"
	"strings"
	"sync"

	"backoffice/internal/domain"
	"backoffice/internal/middleware"

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Request binding
	"github.com/go-playground/validator/v10" // Struct validation behind binding tags
)

// statusFor maps an application error code to an HTTP status
var statusFor = map[string]int{
	domain.CodeValidation:   http.StatusBadRequest,
	domain.CodeConflict:     http.StatusConflict,
	domain.CodeNotFound:     http.StatusNotFound,
	domain.CodeUnauthorized: http.StatusUnauthorized,
	domain.CodeForbidden:    http.StatusForbidden,
	domain.CodeStore:        http.StatusInternalServerError,
	domain.CodeMail:         http.StatusInternalServerError,
}

// respondError writes {"error": msg} with the status of err's code.
// Store and mail failures are logged and answered with their generic message only.
func respondError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status, ok := statusFor[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := "Internal server error"
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).WithError(err).WithField("code", code).Error(msg)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindJSON decodes the body into req and turns binding failures into VALIDATION_ERRORs
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return domain.Validation(validationMessage(verrs))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Validation(fmt.Sprintf("%s has the wrong type", typeErr.Field))
	}
	if errors.Is(err, io.EOF) {
		return domain.Validation("Request body is required")
	}
	return domain.Validation("Invalid request body")
}

// validationMessage renders validator errors as one readable sentence per field
func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:] // Drop the request struct name
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

var registerOnce sync.Once

// registerValidation makes validator report fields by their JSON names
func registerValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
