package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"grocerylist-api/config"
	"grocerylist-api/internal/domain/entity"
	"grocerylist-api/internal/domain/repository"
	"grocerylist-api/pkg/helpers"
	tpl "grocerylist-api/pkg/mailer/templates"
)

// Tagged outcomes of the credential lifecycle. Handlers translate them to
// status codes at the boundary; no string matching on error messages.
var (
	// ErrUserNotFound: no account for the email. Outwardly collapsed with
	// ErrInvalidCredentials so callers cannot probe registered addresses.
	ErrUserNotFound = errors.New("user does not exist")

	// ErrNotConfirmed: the account still carries a pending confirmation.
	ErrNotConfirmed = errors.New("account has not been confirmed yet")

	// ErrInvalidCredentials: the password did not match. An expected
	// outcome, not an infrastructure failure.
	ErrInvalidCredentials = errors.New("wrong credentials")

	// ErrConfirmationInvalid covers malformed, unknown, and already-used
	// confirmation ids.
	ErrConfirmationInvalid = errors.New("confirmation id is invalid")

	// ErrConfirmationExpired: the id exists but its window has lapsed.
	ErrConfirmationExpired = errors.New("confirmation id is expired")
)

// MissingEnvError reports required configuration absent at call time.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("Environment variable '%s' is 'undefined'.", e.Name)
}

// Mailer is the outbound transport the service renders into.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Service implements registration, confirmation, and credential
// verification on top of the user store and the mail transport.
type Service struct {
	Repo   repository.UserRepository
	Mail   Mailer
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewService(repo repository.UserRepository, mail Mailer, logger *logrus.Logger, cfg *config.Config) *Service {
	return &Service{Repo: repo, Mail: mail, Logger: logger, Cfg: cfg}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Language  string
}

// Register creates a pending account and mails the confirmation link.
//
// A duplicate email returns nil without sending mail so the caller cannot
// tell an existing address apart from a fresh registration. If mail
// rendering or delivery fails the inserted row stays behind; the account
// can still be confirmed from a re-sent link or cleaned up after expiry.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if s.Cfg.BaseURL == "" {
		return &MissingEnvError{Name: "BASE_URL"}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	confirmation := &entity.AccountConfirmation{
		ID:        primitive.NewObjectID(),
		ExpiresOn: time.Now().UTC().Add(s.Cfg.ConfirmationTTL),
	}
	u := &entity.User{
		Email:               strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Password:            hash,
		Language:            in.Language,
		Theme:               "light",
		AccountConfirmation: confirmation,
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.Logger.WithField("email", u.Email).Warn("registration attempt for taken email")
			return nil
		}
		return fmt.Errorf("insert user: %w", err)
	}

	link := strings.TrimRight(s.Cfg.BaseURL, "/") + "/confirm-registration?id=" + confirmation.ID.Hex()
	data := tpl.EmailData{
		Name:       u.FullName(),
		Email:      u.Email,
		AppName:    s.Cfg.AppName,
		ConfirmURL: link,
	}.WithExpiresAt(confirmation.ExpiresOn)

	subject, text, html, err := tpl.Render(tpl.RegistrationConfirmation, data)
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	if !s.Cfg.MailSendEnabled {
		s.Logger.WithField("user_id", u.ID.Hex()).Info("mail sending disabled, skipping confirmation email")
		return nil
	}
	if err := s.Mail.Send(ctx, u.Email, subject, text, html); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	s.Logger.WithField("user_id", u.ID.Hex()).Info("user registered, confirmation email sent")
	return nil
}

// Confirm consumes a confirmation id and flips the account into the
// confirmed state, returning the confirmed user's id.
func (s *Service) Confirm(ctx context.Context, confirmationID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(confirmationID))
	if err != nil {
		return "", ErrConfirmationInvalid
	}

	u, err := s.Repo.FindByConfirmationID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrConfirmationInvalid
		}
		return "", fmt.Errorf("lookup confirmation: %w", err)
	}

	if u.AccountConfirmation != nil && u.AccountConfirmation.ExpiresOn.Before(time.Now().UTC()) {
		return "", ErrConfirmationExpired
	}

	if err := s.Repo.ClearConfirmation(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrConfirmationInvalid
		}
		return "", fmt.Errorf("clear confirmation: %w", err)
	}

	return u.ID.Hex(), nil
}

// VerifyCredentials checks email and password in order: existence,
// confirmation state, then the password itself. Wrong password is the
// expected-failure path (ErrInvalidCredentials); a hash that cannot be
// parsed is an infrastructure error.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !u.IsConfirmed() {
		return nil, ErrNotConfirmed
	}

	ok, err := helpers.VerifyPassword(u.Password, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// RecordLocalSession appends a session ledger entry to the user document.
// Best effort: the HTTP session is already established when this runs, so a
// failure is logged and swallowed.
func (s *Service) RecordLocalSession(ctx context.Context, userID primitive.ObjectID) {
	entry := entity.LocalSession{
		ID:        primitive.NewObjectID(),
		ExpiresOn: time.Now().UTC().Add(s.Cfg.SessionTTL),
	}
	if err := s.Repo.PushLocalSession(ctx, userID, entry); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID.Hex()).Warn("failed to record local session")
	}
}

// GetProfile loads a user by its hex id for the session-guarded profile
// endpoint.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}
