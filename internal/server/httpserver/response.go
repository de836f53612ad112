package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Response is the envelope shared by every JSON answer.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(msg string) Response {
	return Response{Success: true, Message: msg}
}

func Error(msg string) Response {
	return Response{Error: msg}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var msgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(strings.Join(msgs, ", "))
}

// statusFor maps service errors to an HTTP status and a client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrIntegrity), errors.Is(err, common.ErrTokenNotFound):
		return http.StatusBadRequest, "Invalid token"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Incorrect password, please try again"
	case errors.Is(err, common.ErrInvalidCredential):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrEmailNotVerified):
		return http.StatusForbidden, "The Email is not verified"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// fail writes the error response for err. Server-side failures are logged
// with op; client errors are not.
func fail(w http.ResponseWriter, r *http.Request, l logging.Logger, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.Error(r.Context(), "request failed",
			"op", op,
			logging.Err(err),
		)
	}

	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
