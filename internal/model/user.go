package model

import "time"

const (
	UserTypeBuyer = "buyer"
	UserTypeShop  = "shop"
)

type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Company   string    `db:"company" json:"company"`
	Position  string    `db:"position" json:"position"`
	Type      string    `db:"type" json:"type"`
	IsActive  bool      `db:"is_active" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`

	Contacts []Contact `db:"-" json:"contacts,omitempty"`
}

type Contact struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"-"`
	City      string `db:"city" json:"city"`
	Street    string `db:"street" json:"street"`
	House     string `db:"house" json:"house"`
	Structure string `db:"structure" json:"structure"`
	Building  string `db:"building" json:"building"`
	Apartment string `db:"apartment" json:"apartment"`
	Phone     string `db:"phone" json:"phone"`
}

// AuthToken is the opaque API token resolved by the auth middleware.
type AuthToken struct {
	Key       string    `db:"key"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ConfirmToken is a one-time token mailed out for email confirmation
// and password reset.
type ConfirmToken struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Key       string    `db:"key"`
	CreatedAt time.Time `db:"created_at"`
}
