package dto

type ListingFilters struct {
	ShopID     int64  `json:"shop_id"`
	CategoryID int64  `json:"category_id"`
	Query      string `json:"query"`
}

type ParameterValue struct {
	Name  string `db:"name" json:"name"`
	Value string `db:"value" json:"value"`
}

// Listing is a browsable product offer: product_info joined with its
// product, category and parameters. Only listings of active shops are
// returned.
type Listing struct {
	ID           int64  `db:"id" json:"id"`
	ExternalID   int64  `db:"external_id" json:"external_id"`
	Model        string `db:"model" json:"model"`
	Quantity     int    `db:"quantity" json:"quantity"`
	Price        int64  `db:"price" json:"price"`
	PriceRRC     int64  `db:"price_rrc" json:"price_rrc"`
	ShopID       int64  `db:"shop_id" json:"shop_id"`
	Name         string `db:"name" json:"name"`
	CategoryID   int64  `db:"category_id" json:"category_id"`
	CategoryName string `db:"category_name" json:"category_name"`

	Parameters []ParameterValue `db:"-" json:"parameters,omitempty"`
}
