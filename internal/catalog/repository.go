package catalog

import (
	"context"

	"github.com/hleeroa/Autoshop/internal/catalog/dto"
	"github.com/hleeroa/Autoshop/internal/model"
)

type Repository interface {
	Categories(ctx context.Context) ([]model.Category, error)
	ActiveShops(ctx context.Context) ([]model.Shop, error)
	SearchListings(ctx context.Context, filters *dto.ListingFilters) ([]dto.Listing, error)

	// ShopByUser returns nil when the user owns no shop.
	ShopByUser(ctx context.Context, userID int64) (*model.Shop, error)

	// SetShopState returns rows matched (0 when the user owns no
	// shop).
	SetShopState(ctx context.Context, userID int64, state bool) (int64, error)
}
