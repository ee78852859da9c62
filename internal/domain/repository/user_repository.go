package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"grocerylist-api/internal/domain/entity"
)

var (
	// ErrDuplicateEmail is returned by Create when the email address is
	// already taken (unique-index conflict).
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrNotFound is returned by lookups that match no document.
	ErrNotFound = errors.New("user not found")
)

// UserRepository defines the store operations the credential lifecycle needs.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByConfirmationID looks up the user whose pending confirmation
	// sub-document carries the given id.
	FindByConfirmationID(ctx context.Context, confirmationID primitive.ObjectID) (*entity.User, error)

	// ClearConfirmation removes the account_confirmation sub-document,
	// flipping the account into the confirmed state.
	ClearConfirmation(ctx context.Context, userID primitive.ObjectID) error

	// PushLocalSession appends a session ledger entry to the user document.
	PushLocalSession(ctx context.Context, userID primitive.ObjectID, s entity.LocalSession) error

	// FindExpiredUnconfirmed returns users whose confirmation window lapsed
	// before now without the account being confirmed.
	FindExpiredUnconfirmed(ctx context.Context, now time.Time) ([]entity.User, error)

	// DeleteByIDs hard-deletes the given users in one batch, returning the
	// number of removed documents.
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}
