package order

import (
	"context"
	"errors"
	"time"

	"github.com/hleeroa/Autoshop/internal/model"
)

// ErrDuplicateItem is returned on a (order, product_info) uniqueness
// violation.
var ErrDuplicateItem = errors.New("item already in basket")

type Repository interface {
	GetOrCreateBasket(ctx context.Context, userID int64) (*model.Order, error)

	// BasketWithItems loads the basket, its lines and the computed
	// total. Nil when the user has no basket.
	BasketWithItems(ctx context.Context, userID int64) (*model.Order, error)

	ListingExists(ctx context.Context, productInfoID int64) (bool, error)

	InsertItem(ctx context.Context, orderID, productInfoID int64, quantity int) error

	// UpdateItemQuantity returns the number of rows matched (0 or 1).
	UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (int64, error)

	// DeleteItems removes the given lines from the order, returning
	// the deleted count.
	DeleteItems(ctx context.Context, orderID int64, itemIDs []int64) (int64, error)

	ContactOwned(ctx context.Context, userID, contactID int64) (bool, error)

	// Place conditionally moves the order to "new": matched by id,
	// owner and basket state, all in one statement. Returns rows
	// matched.
	Place(ctx context.Context, userID, orderID, contactID int64) (int64, error)

	// Orders returns the user's non-basket orders with items and
	// totals.
	Orders(ctx context.Context, userID int64) ([]model.Order, error)

	// PartnerOrders returns non-basket orders that contain listings
	// of the shop owned by partnerUserID.
	PartnerOrders(ctx context.Context, partnerUserID int64) ([]model.Order, error)

	UserEmail(ctx context.Context, userID int64) (string, error)
}

// Locker serializes basket mutations per user.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// Publisher is the slice of the message broker used for
// order-confirmation events.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}
