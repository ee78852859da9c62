package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"grocerylist-api/config"
	"grocerylist-api/internal/application"
	"grocerylist-api/internal/domain/entity"
	"grocerylist-api/pkg/helpers"
	"grocerylist-api/pkg/mailer"
	tpl "grocerylist-api/pkg/mailer/templates"
	"grocerylist-api/pkg/response"
	"grocerylist-api/pkg/session"
	"grocerylist-api/pkg/validation"
)

// AuthService is the application surface the handler depends on.
type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) error
	Confirm(ctx context.Context, confirmationID string) (string, error)
	VerifyCredentials(ctx context.Context, email, password string) (*entity.User, error)
	RecordLocalSession(ctx context.Context, userID primitive.ObjectID)
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
}

// AuthHandler owns the registration, confirmation, and login endpoints.
type AuthHandler struct {
	Svc      AuthService
	Sessions *session.Manager
	Pub      *helpers.RabbitPublisher // nil when RabbitMQ is absent
	Logger   *logrus.Logger
	Cfg      *config.Config
}

func NewAuthHandler(svc AuthService, sessions *session.Manager, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Sessions: sessions, Pub: pub, Logger: logger, Cfg: cfg}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email_address" binding:"required,email"`
	Password  string `json:"plainPassword" binding:"required,pwd"`
	Language  string `json:"client_language" binding:"omitempty,max=10"`
}

// Register POST /api/register
//
// Always answers 200 on the happy path, including when the email is already
// taken, so the endpoint leaks nothing about existing accounts. 500 is
// reserved for configuration and infrastructure failures.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Language:  req.Language,
	})
	if err != nil {
		var envErr *application.MissingEnvError
		if errors.As(err, &envErr) {
			h.Logger.Error(envErr.Error())
		} else {
			h.Logger.WithError(err).Error("registration failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
		return
	}

	response.Success[any](c, http.StatusOK, nil, "User has been successfully registered.")
}

type confirmRequest struct {
	ConfirmationID string `json:"confirmation_id" binding:"required"`
}

// ConfirmRegistration POST /api/confirm-registration
//
// Malformed, unknown, already-used, and expired ids all collapse into one
// outward 400 so the response gives no hint which case was hit.
func (h *AuthHandler) ConfirmRegistration(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "The confirmation id is invalid.", validation.ToDetails(err))
		return
	}

	userID, err := h.Svc.Confirm(c.Request.Context(), req.ConfirmationID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrConfirmationInvalid), errors.Is(err, application.ErrConfirmationExpired):
			h.Logger.WithField("confirmation_id", req.ConfirmationID).Warn("rejected confirmation attempt")
			response.Error[any](c, http.StatusBadRequest, "The confirmation id is invalid.", nil)
		default:
			h.Logger.WithError(err).Error("confirmation failed")
			response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
		}
		return
	}

	h.Logger.WithField("user_id", userID).Info("user account confirmed")
	response.Success[any](c, http.StatusOK, nil, "User registration has been successfully confirmed.")
}

type loginRequest struct {
	Email    string `json:"email_address" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/login
//
// Unknown email and wrong password share one message; only the unconfirmed
// state gets its own, because the front-end renders a dedicated hint for it.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "The credentials provided don't match any user.", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound), errors.Is(err, application.ErrInvalidCredentials):
			h.Logger.WithField("email", req.Email).Warn("failed login attempt")
			response.Error[any](c, http.StatusBadRequest, "The credentials provided don't match any user.", nil)
		case errors.Is(err, application.ErrNotConfirmed):
			h.Logger.WithField("email", req.Email).Warn("login attempt on unconfirmed account")
			response.Error[any](c, http.StatusBadRequest, "User's account has not been confirmed yet.", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
		}
		return
	}

	if _, err := h.Sessions.Establish(c, u.ID.Hex()); err != nil {
		var estErr *session.EstablishError
		if errors.As(err, &estErr) {
			h.Logger.WithError(estErr.Err).WithField("step", estErr.Step).Error("session establishment failed")
		} else {
			h.Logger.WithError(err).Error("session establishment failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
		return
	}

	h.Svc.RecordLocalSession(c.Request.Context(), u.ID)
	h.notifyLogin(c, u)

	h.Logger.WithField("user_id", u.ID.Hex()).Info("user logged in")
	response.Success[any](c, http.StatusCreated, nil, "User is logged in.")
}

// notifyLogin enqueues the sign-in notification email. Best effort: the
// login already succeeded, so a missing broker or a publish error only logs.
func (h *AuthHandler) notifyLogin(c *gin.Context, u *entity.User) {
	if h.Pub == nil || !h.Cfg.MailSendEnabled {
		return
	}
	data := tpl.EmailData{
		Name:      u.FullName(),
		Email:     u.Email,
		AppName:   h.Cfg.AppName,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}.WithTime(time.Now())
	job := mailer.EmailJob{To: u.Email, Template: tpl.LoginNotification, Data: data}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).Warn("failed to enqueue login notification email")
	}
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := h.Sessions.FromRequest(c); ok {
		if err := h.Sessions.Destroy(c.Request.Context(), id); err != nil {
			h.Logger.WithError(err).Error("session destroy failed")
			response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
			return
		}
	}
	h.Sessions.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "User is logged out.")
}

type profileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email_address"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Language  string `json:"language"`
	Theme     string `json:"theme"`
}

// Profile GET /api/profile (session required)
func (h *AuthHandler) Profile(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		h.Logger.WithError(err).Error("profile lookup failed")
		response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
		return
	}

	response.Success(c, http.StatusOK, profileResponse{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Language:  u.Language,
		Theme:     u.Theme,
	}, "profile")
}
