package catalog

import (
	"context"
	"errors"

	"github.com/hleeroa/Autoshop/internal/catalog/dto"
	"github.com/hleeroa/Autoshop/internal/model"
)

// ErrNoShop is returned when a partner user has not imported a
// catalog yet and therefore owns no shop.
var ErrNoShop = errors.New("user owns no shop")

type UseCase interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListShops(ctx context.Context) ([]model.Shop, error)

	// SearchListings filters by shop and/or category; a free-text
	// query goes through the search index when available, falling
	// back to the database.
	SearchListings(ctx context.Context, filters *dto.ListingFilters) ([]dto.Listing, error)

	ShopState(ctx context.Context, userID int64) (*model.Shop, error)
	SetShopState(ctx context.Context, userID int64, state bool) error
}
