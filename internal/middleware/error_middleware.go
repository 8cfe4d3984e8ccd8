package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/logger"
)

// HandleAPIError maps service errors to the JSON error contract. Controllers
// call it instead of building responses themselves so the wire shape and the
// status mapping stay in one place.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		detail := dto.NewErrorDetail(codeFor(customErr.Err), customErr.Message)
		if customErr.Details != nil {
			detail = detail.WithDetails(customErr.Details)
		}
		c.JSON(statusFor(customErr.Err), dto.NewErrorResponse(detail))
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrSessionExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Session expired")
	case errors.Is(err, apperrors.ErrSessionInvalid), errors.Is(err, apperrors.ErrUnauthenticated):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusBadRequest, dto.ErrorCodeExpiredToken, "Invitation token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid or already used invitation token")
	case errors.Is(err, apperrors.ErrInvalidPassword):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Password must be at least 6 characters").WithField("password")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	case errors.Is(err, apperrors.ErrInvalidEmail):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Email address is not valid").WithField("email")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	case errors.Is(err, apperrors.ErrInvalidRole):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Unknown role")
	case errors.Is(err, apperrors.ErrInvalidStudentType):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Unknown student type")
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrCandidateNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Candidate not found")
	case errors.Is(err, apperrors.ErrProfileNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrSubjectNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Subject not found")
	case errors.Is(err, apperrors.ErrDocumentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Required document not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrApplicationNoExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Application number already exists")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already has an account")
	case errors.Is(err, apperrors.ErrSubjectCodeExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Subject code already exists")
	case errors.Is(err, apperrors.ErrCandidateNotInvitable):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "Candidate cannot be invited in their current status")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "Conflict with existing resource")
	case errors.Is(err, apperrors.ErrUpstream):
		respond(c, http.StatusBadGateway, dto.ErrorCodeUpstreamError, "Upstream service failure")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// statusFor maps a wrapped sentinel to its HTTP status for CustomError
// payloads that carry their own message.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) dto.ErrorCode {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrValidationFailed):
		return dto.ErrorCodeValidationFailed
	default:
		return dto.ErrorCodeInternalServer
	}
}
