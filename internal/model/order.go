package model

import "time"

const (
	// OrderStateBasket is the single mutable pre-placement state.
	OrderStateBasket = "basket"
	// OrderStateNew is the placed state; fulfillment states beyond it
	// belong to downstream systems.
	OrderStateNew = "new"
)

type Order struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	State     string    `db:"state" json:"state"`
	ContactID *int64    `db:"contact_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"dt"`

	// TotalSum is computed on read from current listing prices,
	// never stored.
	TotalSum int64 `db:"total_sum" json:"total_sum"`

	Items   []OrderItem `db:"-" json:"ordered_items,omitempty"`
	Contact *Contact    `db:"-" json:"contact,omitempty"`
}

type OrderItem struct {
	ID            int64 `db:"id" json:"id"`
	OrderID       int64 `db:"order_id" json:"-"`
	ProductInfoID int64 `db:"product_info_id" json:"product_info"`
	Quantity      int   `db:"quantity" json:"quantity"`

	// Listing snapshot joined in on read.
	ProductName string `db:"product_name" json:"product_name,omitempty"`
	Price       int64  `db:"price" json:"price,omitempty"`
	ShopID      int64  `db:"shop_id" json:"shop_id,omitempty"`
}
