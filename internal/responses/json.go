package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridapi/internal/schema"
	"gridapi/internal/validation"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// FailFromError maps taxonomy errors to HTTP statuses: validation problems
// are the caller's fault, catalog inconsistencies mean the target schema
// violates an engine assumption, everything else surfaces as a store error.
func FailFromError(c *gin.Context, err error, message string) {
	var (
		validationErr  *validation.ValidationError
		unrecognized   *schema.UnrecognizedTypeError
		malformedEnum  *schema.MalformedEnumError
		unsupportedDef *schema.UnsupportedDefaultError
		brokenFK       *schema.BrokenForeignKeyError
	)
	switch {
	case errors.As(err, &validationErr):
		Fail(c, http.StatusBadRequest, err, message)
	case errors.As(err, &unrecognized),
		errors.As(err, &malformedEnum),
		errors.As(err, &unsupportedDef),
		errors.As(err, &brokenFK):
		Fail(c, http.StatusUnprocessableEntity, err, message)
	default:
		Fail(c, http.StatusInternalServerError, err, message)
	}
}
