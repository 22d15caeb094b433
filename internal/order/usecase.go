package order

import (
	"context"
	"errors"

	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/order/dto"
)

// ErrMissingArguments is returned when a mutation carries no usable
// entries at all.
var ErrMissingArguments = errors.New("required arguments are missing")

// ErrNotFound is returned when the referenced order or contact does
// not exist, does not belong to the caller, or is no longer a basket.
var ErrNotFound = errors.New("not found or not owned")

// ErrBusy is returned when the per-user basket lock cannot be taken.
var ErrBusy = errors.New("basket is busy, try again")

type UseCase interface {
	// GetBasket returns the user's basket with items and computed
	// total. A user with no basket gets nil.
	GetBasket(ctx context.Context, userID int64) (*model.Order, error)

	// AddItems creates basket lines, one per spec. Invalid and
	// duplicate entries are reported per item without aborting the
	// rest of the batch.
	AddItems(ctx context.Context, userID int64, items []dto.ItemSpec) (*dto.AddResult, error)

	// UpdateItems sets quantities on the caller's basket lines.
	// Entries that match nothing are silently skipped.
	UpdateItems(ctx context.Context, userID int64, items []dto.UpdateSpec) (*dto.UpdateResult, error)

	// RemoveItems deletes basket lines by id. Non-numeric ids are
	// ignored; ErrMissingArguments when no valid id was supplied.
	RemoveItems(ctx context.Context, userID int64, rawIDs []string) (*dto.RemoveResult, error)

	// PlaceOrder transitions the caller's basket to "new" with the
	// given contact, then emits an order-confirmation notification.
	PlaceOrder(ctx context.Context, userID, orderID, contactID int64) error

	// ListOrders returns the user's placed orders, baskets excluded.
	ListOrders(ctx context.Context, userID int64) ([]model.Order, error)

	// PartnerOrders returns placed orders containing listings of the
	// partner user's shop.
	PartnerOrders(ctx context.Context, partnerUserID int64) ([]model.Order, error)
}
