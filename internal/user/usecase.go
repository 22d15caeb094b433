package user

import (
	"context"
	"errors"

	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/user/dto"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrDuplicateContact   = errors.New("contact already exists")
	ErrContactNotFound    = errors.New("contact not found")
	ErrMissingArguments   = errors.New("required arguments are missing")
)

type UseCase interface {
	// Register creates an inactive account and emits a confirmation
	// notification carrying the activation token.
	Register(ctx context.Context, input *dto.RegisterInput) error

	// ConfirmEmail activates the account matching a mailed-out token.
	ConfirmEmail(ctx context.Context, email, token string) error

	// Login verifies credentials on an active account and returns an
	// opaque API token.
	Login(ctx context.Context, email, password string) (string, error)

	Details(ctx context.Context, userID int64) (*model.User, error)
	UpdateDetails(ctx context.Context, userID int64, input *dto.UpdateDetailsInput) error

	// RequestPasswordReset emits a reset notification. Unknown emails
	// are a silent success so the endpoint cannot be used to probe
	// accounts.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, password string) error

	Contacts(ctx context.Context, userID int64) ([]model.Contact, error)
	CreateContact(ctx context.Context, userID int64, input *dto.ContactInput) error
	UpdateContact(ctx context.Context, userID, contactID int64, input *dto.ContactUpdateInput) error

	// DeleteContacts removes the caller's contacts by id; non-numeric
	// ids are ignored, ErrMissingArguments when none remain.
	DeleteContacts(ctx context.Context, userID int64, rawIDs []string) (int, error)
}
