package importer

import "context"

// IndexDoc is the search-index projection of one listing. Field names
// line up with the catalog search DTO so index hits deserialize
// straight into API results.
type IndexDoc struct {
	ID         int64  `db:"id" json:"id"`
	ShopID     int64  `db:"shop_id" json:"shop_id"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	Name       string `db:"name" json:"name"`
	Model      string `db:"model" json:"model"`
	Price      int64  `db:"price" json:"price"`
	PriceRRC   int64  `db:"price_rrc" json:"price_rrc"`
	Quantity   int    `db:"quantity" json:"quantity"`
}

type Repository interface {
	// Apply persists the plan atomically: shop resolve, category
	// upsert, listing replace. Returns ErrOwnershipConflict or
	// ErrShopNameTaken without touching the catalog.
	Apply(ctx context.Context, userID int64, plan *Plan) (*ImportResult, error)

	// IndexableListings returns the user's shop listings in index
	// form, for reindexing after an import.
	IndexableListings(ctx context.Context, userID int64) ([]IndexDoc, error)
}
