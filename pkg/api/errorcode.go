package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jakechorley/volunteer-roster/pkg/core/services"
)

var errorMessageMap = map[int64]string{
	999: "internal server error",

	1010: "invalid parameters",
	1011: "cannot parse request",

	1100: "volunteer not found",
	1200: "failed to persist volunteers",
}

var (
	errorInternalServer     = errorJSON(999)
	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorVolunteerNotFound  = errorJSON(1100)
	errorPersistence        = errorJSON(1200)
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	message, ok := errorMessageMap[code]
	if !ok {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// withDetail returns a copy of the response carrying the error's message
func (r ErrorResponse) withDetail(err error) ErrorResponse {
	r.Message = err.Error()
	return r
}

func abortWithEncoding(c *gin.Context, status int, resp ErrorResponse) {
	c.AbortWithStatusJSON(status, resp)
}

// abortWithServiceError maps a service error onto an HTTP status and body
func (s *Server) abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters.withDetail(err))
	case errors.Is(err, services.ErrNotFound):
		abortWithEncoding(c, http.StatusNotFound, errorVolunteerNotFound.withDetail(err))
	case errors.Is(err, services.ErrPersistence):
		s.logger.Error("Persistence failure while handling request", zapRequest(c, err)...)
		abortWithEncoding(c, http.StatusInternalServerError, errorPersistence)
	default:
		s.logger.Error("Unexpected error while handling request", zapRequest(c, err)...)
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	}
}
