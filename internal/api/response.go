package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// apiResponse is the envelope of every successful response.
type apiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// apiError is the envelope of every failed response.
type apiError struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
	Errors     []string    `json:"errors"`
}

// requestError is a malformed request caught before any service runs.
type requestError struct {
	status  int // zero means 400
	message string
	details []string
}

func (e *requestError) Error() string { return e.message }

func badRequest(format string, args ...interface{}) error {
	return &requestError{message: fmt.Sprintf(format, args...)}
}

var errBodyTooLarge = &requestError{status: http.StatusRequestEntityTooLarge, message: "Request body too large"}

// bodyTooLarge reports whether err came from an http.MaxBytesReader cap.
func bodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	c.AbortWithStatusJSON(code, apiError{
		StatusCode: code,
		Message:    message,
		Success:    false,
		Errors:     details,
	})
}

// statusForKind maps a service error kind to its HTTP status.
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as an error envelope and aborts the chain.
// Internal errors are logged and never leak their cause to the client.
func respondError(c *gin.Context, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		status := reqErr.status
		if status == 0 {
			status = http.StatusBadRequest
		}
		abortWithError(c, status, reqErr.message, reqErr.details...)
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		abortWithError(c, http.StatusBadRequest, "Validation error", validationDetails(verrs)...)
		return
	}

	var se *service.Error
	if !errors.As(err, &se) {
		logger.FromContext(c.Request.Context()).WithError(err).Error("unhandled error")
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := statusForKind(se.Kind)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).WithError(err).Error("request failed")
	}
	abortWithError(c, status, se.Message, se.Details...)
}

// bindError turns a ShouldBind* failure into a 400 with one entry per field.
func bindError(c *gin.Context, err error) {
	if bodyTooLarge(err) {
		respondError(c, errBodyTooLarge)
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		abortWithError(c, http.StatusBadRequest, "Validation error", validationDetails(verrs)...)
		return
	}
	abortWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
}

func validationDetails(verrs validator.ValidationErrors) []string {
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required", "notblank":
			details = append(details, field+" is required")
		case "email":
			details = append(details, field+" must be a valid email")
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return details
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
