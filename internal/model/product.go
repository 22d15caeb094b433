package model

type Product struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	CategoryID int64  `db:"category_id" json:"category_id"`
}

// ProductInfo is a shop's listing of a product: the unit actually
// priced and purchased. Prices are stored in minor currency units.
type ProductInfo struct {
	ID         int64  `db:"id" json:"id"`
	ExternalID int64  `db:"external_id" json:"external_id"`
	Model      string `db:"model" json:"model"`
	ProductID  int64  `db:"product_id" json:"-"`
	ShopID     int64  `db:"shop_id" json:"shop"`
	Quantity   int    `db:"quantity" json:"quantity"`
	Price      int64  `db:"price" json:"price"`
	PriceRRC   int64  `db:"price_rrc" json:"price_rrc"`
}

type Parameter struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type ProductParameter struct {
	ID            int64  `db:"id"`
	ProductInfoID int64  `db:"product_info_id"`
	ParameterID   int64  `db:"parameter_id"`
	Value         string `db:"value"`
}
