package user

import (
	"context"

	"github.com/hleeroa/Autoshop/internal/model"
)

type Repository interface {
	// CreateUser returns ErrEmailTaken on the email uniqueness
	// constraint.
	CreateUser(ctx context.Context, u *model.User) (int64, error)

	// UserByEmail returns nil when no account matches.
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UserByToken(ctx context.Context, key string) (*model.User, error)

	UpdateUser(ctx context.Context, u *model.User) error
	ActivateUser(ctx context.Context, userID int64) error

	SaveConfirmToken(ctx context.Context, userID int64, key string) error

	// ConsumeConfirmToken deletes the matching token and returns its
	// user id; ErrInvalidToken when nothing matches.
	ConsumeConfirmToken(ctx context.Context, email, key string) (int64, error)

	SaveAuthToken(ctx context.Context, userID int64, key string) error

	Contacts(ctx context.Context, userID int64) ([]model.Contact, error)

	// CreateContact returns ErrDuplicateContact on the per-user
	// uniqueness constraint.
	CreateContact(ctx context.Context, contact *model.Contact) error

	// ContactByID returns nil when the contact does not exist or is
	// not owned by userID.
	ContactByID(ctx context.Context, contactID, userID int64) (*model.Contact, error)
	UpdateContact(ctx context.Context, contact *model.Contact) error
	DeleteContacts(ctx context.Context, userID int64, ids []int64) (int64, error)
}

// Publisher is the slice of the message broker used for account
// notifications.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}
