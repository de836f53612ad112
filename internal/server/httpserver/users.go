package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/dmitrijs2005/cloudygo/internal/server/services"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// UserService is the account API consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, services.DeliveryResult, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	VerifyEmail(ctx context.Context, envelope string) (*models.User, services.DeliveryResult, error)
	RequestEmail(ctx context.Context, email string, kind mailer.Kind) (services.DeliveryResult, error)
	ResetPassword(ctx context.Context, envelope, password string) error
	Profile(ctx context.Context, userID string) (*models.User, error)
	History(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}

type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupResponse struct {
	Response
	User           models.Profile `json:"user"`
	EmailDelivered bool           `json:"emailDelivered"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type SendEmailRequest struct {
	Email     string `json:"email" validate:"required,email"`
	EmailType string `json:"emailType" validate:"required,oneof=VERIFY FORGET"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileResponse struct {
	Response
	Data models.Profile `json:"data"`
}

type HistoryResponse struct {
	Response
	History []models.HistoryEntry `json:"history"`
}

type userHandlers struct {
	users         UserService
	log           logging.Logger
	validate      *validator.Validate
	secureCookies bool
}

// decode reads a JSON body into req and validates it, writing the 400 itself
// when either step fails.
func decode(w http.ResponseWriter, r *http.Request, l logging.Logger, v *validator.Validate, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		l.Debug(r.Context(), "failed to decode request body", logging.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("Failed to decode request"))
		return false
	}

	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusBadRequest)
		if errors.As(err, &verrs) {
			render.JSON(w, r, ValidationError(verrs))
		} else {
			render.JSON(w, r, Error("Invalid request"))
		}
		return false
	}
	return true
}

func (h *userHandlers) logger(r *http.Request, op string) logging.Logger {
	return h.log.With("op", op)
}

func (h *userHandlers) signup(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.signup"
	log := h.logger(r, op)

	var req SignupRequest
	if !decode(w, r, log, h.validate, &req) {
		return
	}

	user, delivery, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}

	log.Info(r.Context(), "user signed up", "user_id", user.ID, "email_delivered", delivery.OK())

	render.JSON(w, r, SignupResponse{
		Response:       OK("User created successfully"),
		User:           user.Profile(),
		EmailDelivered: delivery.OK(),
	})
}

func (h *userHandlers) login(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.login"
	log := h.logger(r, op)

	var req LoginRequest
	if !decode(w, r, log, h.validate, &req) {
		return
	}

	credential, user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, Error("Email not found try to signup"))
			return
		}
		fail(w, r, log, op, err)
		return
	}

	auth.SetSessionCookie(w, credential, h.secureCookies)
	log.Info(r.Context(), "user logged in", "user_id", user.ID)

	render.JSON(w, r, OK("Logged in successfully"))
}

func (h *userHandlers) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookies)
	render.JSON(w, r, OK("Logout successful"))
}

func (h *userHandlers) verifyEmail(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.verifyEmail"
	log := h.logger(r, op)

	var req TokenRequest
	if !decode(w, r, log, h.validate, &req) {
		return
	}

	user, _, err := h.users.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}

	log.Info(r.Context(), "email verified", "user_id", user.ID)
	render.JSON(w, r, OK("User verified Successfully"))
}

// sendEmail answers the same way whether or not the address is registered.
func (h *userHandlers) sendEmail(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.sendEmail"
	log := h.logger(r, op)

	var req SendEmailRequest
	if !decode(w, r, log, h.validate, &req) {
		return
	}

	kind, err := mailer.ParseKind(req.EmailType)
	if err != nil {
		fail(w, r, log, op, common.ErrInvalidInput)
		return
	}

	delivery, err := h.users.RequestEmail(r.Context(), req.Email, kind)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}
	if !delivery.OK() && !errors.Is(delivery.Err, common.ErrorNotFound) {
		log.Warn(r.Context(), "requested email not delivered", "kind", kind.String(), logging.Err(delivery.Err))
	}

	render.JSON(w, r, OK("If the address is registered, an email is on its way"))
}

func (h *userHandlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.resetPassword"
	log := h.logger(r, op)

	var req ResetPasswordRequest
	if !decode(w, r, log, h.validate, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		fail(w, r, log, op, err)
		return
	}

	render.JSON(w, r, OK("Password reset successfully"))
}

func (h *userHandlers) profile(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.profile"
	log := h.logger(r, op)

	claims, _ := auth.ClaimsFromContext(r.Context())

	user, err := h.users.Profile(r.Context(), claims.SubjectID)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}

	render.JSON(w, r, ProfileResponse{Response: OK("User found"), Data: user.Profile()})
}

func (h *userHandlers) history(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.history"
	log := h.logger(r, op)

	claims, _ := auth.ClaimsFromContext(r.Context())

	entries, err := h.users.History(r.Context(), claims.SubjectID)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}

	render.JSON(w, r, HistoryResponse{Response: OK("user found"), History: entries})
}
