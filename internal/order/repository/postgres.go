package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/order"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const pgUniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// GetOrCreateBasket relies on the partial unique index on
// (user_id) WHERE state = 'basket': concurrent calls converge on the
// same row instead of creating two baskets.
func (r *PGRepository) GetOrCreateBasket(ctx context.Context, userID int64) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `
		INSERT INTO orders (user_id, state)
		VALUES ($1, 'basket')
		ON CONFLICT (user_id) WHERE state = 'basket'
		DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, state, contact_id, created_at, 0 AS total_sum
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create basket: %w", err)
	}
	return &o, nil
}

func (r *PGRepository) BasketWithItems(ctx context.Context, userID int64) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `
		SELECT o.id, o.user_id, o.state, o.contact_id, o.created_at,
		       COALESCE(SUM(oi.quantity * pi.price), 0) AS total_sum
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN product_infos pi ON pi.id = oi.product_info_id
		WHERE o.user_id = $1 AND o.state = 'basket'
		GROUP BY o.id
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.DB.SelectContext(ctx, &o.Items, itemQuery+`
		WHERE oi.order_id = $1 ORDER BY oi.id
	`, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// itemQuery joins the listing back in: the API returns order lines
// with product name, price and shop, like the basket the user built.
const itemQuery = `
	SELECT oi.id, oi.order_id, oi.product_info_id, oi.quantity,
	       p.name AS product_name, pi.price, pi.shop_id
	FROM order_items oi
	JOIN product_infos pi ON pi.id = oi.product_info_id
	JOIN products p ON p.id = pi.product_id`

func (r *PGRepository) ListingExists(ctx context.Context, productInfoID int64) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM product_infos WHERE id = $1`, productInfoID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) InsertItem(ctx context.Context, orderID, productInfoID int64, quantity int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_info_id, quantity)
		VALUES ($1, $2, $3)
	`, orderID, productInfoID, quantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return order.ErrDuplicateItem
		}
		return err
	}
	return nil
}

func (r *PGRepository) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE order_items SET quantity = $1
		WHERE id = $2 AND order_id = $3
	`, quantity, itemID, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepository) DeleteItems(ctx context.Context, orderID int64, itemIDs []int64) (int64, error) {
	query, args, err := sqlx.In(`DELETE FROM order_items WHERE order_id = ? AND id IN (?)`, orderID, itemIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepository) ContactOwned(ctx context.Context, userID, contactID int64) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `
		SELECT count(*) FROM contacts WHERE id = $1 AND user_id = $2
	`, contactID, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) Place(ctx context.Context, userID, orderID, contactID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET contact_id = $1, state = 'new'
		WHERE id = $2 AND user_id = $3 AND state = 'basket'
	`, contactID, orderID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepository) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.SelectContext(ctx, &orders, `
		SELECT o.id, o.user_id, o.state, o.contact_id, o.created_at,
		       COALESCE(SUM(oi.quantity * pi.price), 0) AS total_sum
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN product_infos pi ON pi.id = oi.product_info_id
		WHERE o.user_id = $1 AND o.state <> 'basket'
		GROUP BY o.id
		ORDER BY o.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachContacts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGRepository) PartnerOrders(ctx context.Context, partnerUserID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.SelectContext(ctx, &orders, `
		SELECT o.id, o.user_id, o.state, o.contact_id, o.created_at,
		       COALESCE(SUM(oi.quantity * pi.price), 0) AS total_sum
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN product_infos pi ON pi.id = oi.product_info_id
		WHERE o.state <> 'basket'
		  AND o.id IN (
			SELECT DISTINCT oi2.order_id
			FROM order_items oi2
			JOIN product_infos pi2 ON pi2.id = oi2.product_info_id
			JOIN shops s ON s.id = pi2.shop_id
			WHERE s.user_id = $1
		  )
		GROUP BY o.id
		ORDER BY o.created_at DESC
	`, partnerUserID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachContacts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGRepository) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.DB.GetContext(ctx, &email, `SELECT email FROM users WHERE id = $1`, userID)
	if err != nil {
		return "", err
	}
	return email, nil
}

func (r *PGRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	query, args, err := sqlx.In(itemQuery+` WHERE oi.order_id IN (?) ORDER BY oi.id`, ids)
	if err != nil {
		return err
	}
	var items []model.OrderItem
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	byOrder := make(map[int64][]model.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return nil
}

// attachContacts loads the delivery contact of each placed order;
// partner order listings are useless without an address and phone.
func (r *PGRepository) attachContacts(ctx context.Context, orders []model.Order) error {
	ids := make([]int64, 0, len(orders))
	seen := make(map[int64]bool, len(orders))
	for i := range orders {
		if orders[i].ContactID == nil || seen[*orders[i].ContactID] {
			continue
		}
		seen[*orders[i].ContactID] = true
		ids = append(ids, *orders[i].ContactID)
	}
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		SELECT id, user_id, city, street, house, structure, building, apartment, phone
		FROM contacts WHERE id IN (?)
	`, ids)
	if err != nil {
		return err
	}
	var contacts []model.Contact
	if err := r.DB.SelectContext(ctx, &contacts, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	byID := make(map[int64]model.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	for i := range orders {
		if orders[i].ContactID == nil {
			continue
		}
		if c, ok := byID[*orders[i].ContactID]; ok {
			contact := c
			orders[i].Contact = &contact
		}
	}
	return nil
}
