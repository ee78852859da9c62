package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the aggregate root for the account domain.
// Password holds an argon2id encoded hash, never plaintext.
//
// The optional sub-documents mark pending lifecycle states: a present
// AccountConfirmation means the account has not been confirmed yet.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Password  string             `bson:"password"`

	Language string `bson:"language"`
	Theme    string `bson:"theme"`

	AccountConfirmation *AccountConfirmation `bson:"account_confirmation,omitempty"`
	ResetPassword       *ResetPassword       `bson:"reset_password,omitempty"`
	OldEmail            *OldEmail            `bson:"old_email,omitempty"`
	AccountDeleted      *AccountDeleted      `bson:"account_deleted,omitempty"`
	LocalSessions       []LocalSession       `bson:"local_sessions,omitempty"`

	LastUserEditOn time.Time `bson:"last_user_edit_on"`
	CreatedAt      time.Time `bson:"created_at"`
}

// AccountConfirmation marks a registered-but-unverified account. Its id is
// the confirmation id mailed to the user; ExpiresOn bounds the confirmation
// window, after which the cleanup task hard-deletes the record.
type AccountConfirmation struct {
	ID        primitive.ObjectID `bson:"_id"`
	ExpiresOn time.Time          `bson:"expires_on"`
}

// ResetPassword marks an in-flight password-reset request.
type ResetPassword struct {
	ID        primitive.ObjectID `bson:"_id"`
	ExpiresOn time.Time          `bson:"expires_on"`
}

// OldEmail keeps the previous address around for email-change rollback.
type OldEmail struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	ExpiresOn time.Time          `bson:"expires_on"`
}

// AccountDeleted marks a soft-deleted account and when it gets hard-deleted.
type AccountDeleted struct {
	DeleteOn time.Time `bson:"delete_on"`
}

// LocalSession is the secondary session ledger entry appended on each login,
// distinct from the Redis-backed HTTP session.
type LocalSession struct {
	ID        primitive.ObjectID `bson:"_id"`
	ExpiresOn time.Time          `bson:"expires_on"`
}

// IsConfirmed reports whether the account finished email confirmation.
func (u *User) IsConfirmed() bool {
	return u.AccountConfirmation == nil
}

// FullName joins first and last name for email salutations.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
