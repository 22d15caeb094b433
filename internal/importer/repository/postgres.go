package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hleeroa/Autoshop/internal/importer"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Apply runs the whole merge in one transaction so a failure at any
// step leaves the shop's previous catalog intact and readers never
// observe the window between delete and insert.
func (r *PGRepository) Apply(ctx context.Context, userID int64, plan *importer.Plan) (*importer.ImportResult, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	shopID, err := resolveShop(ctx, tx, userID, plan.ShopName)
	if err != nil {
		return nil, err
	}

	for _, c := range plan.Categories {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		`, c.ID, c.Name)
		if err != nil {
			return nil, fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO shops_categories (shop_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, shopID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("link category %d: %w", c.ID, err)
		}
	}

	// Full replace. product_parameters go with their listings via
	// ON DELETE CASCADE.
	_, err = tx.ExecContext(ctx, `DELETE FROM product_infos WHERE shop_id = $1`, shopID)
	if err != nil {
		return nil, fmt.Errorf("drop old listings: %w", err)
	}

	parameters := 0
	for _, l := range plan.Listings {
		var productID int64
		err = tx.GetContext(ctx, &productID, `
			INSERT INTO products (name, category_id) VALUES ($1, $2)
			ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, l.ProductName, l.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("upsert product %q: %w", l.ProductName, err)
		}

		var infoID int64
		err = tx.GetContext(ctx, &infoID, `
			INSERT INTO product_infos (external_id, model, product_id, shop_id, quantity, price, price_rrc)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, l.ExternalID, l.Model, productID, shopID, l.Quantity, l.Price, l.PriceRRC)
		if err != nil {
			return nil, fmt.Errorf("insert listing %d: %w", l.ExternalID, err)
		}

		for _, p := range l.Parameters {
			var parameterID int64
			err = tx.GetContext(ctx, &parameterID, `
				INSERT INTO parameters (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, p.Name)
			if err != nil {
				return nil, fmt.Errorf("upsert parameter %q: %w", p.Name, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO product_parameters (product_info_id, parameter_id, value)
				VALUES ($1, $2, $3)
			`, infoID, parameterID, p.Value)
			if err != nil {
				return nil, fmt.Errorf("insert parameter value %q: %w", p.Name, err)
			}
			parameters++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &importer.ImportResult{
		Categories: len(plan.Categories),
		Products:   len(plan.Listings),
		Parameters: parameters,
	}, nil
}

func (r *PGRepository) IndexableListings(ctx context.Context, userID int64) ([]importer.IndexDoc, error) {
	var docs []importer.IndexDoc
	err := r.DB.SelectContext(ctx, &docs, `
		SELECT pi.id AS id, pi.shop_id AS shop_id, p.category_id AS category_id,
		       p.name AS name, pi.model AS model, pi.price AS price,
		       pi.price_rrc AS price_rrc, pi.quantity AS quantity
		FROM product_infos pi
		JOIN products p ON p.id = pi.product_id
		JOIN shops s ON s.id = pi.shop_id
		WHERE s.user_id = $1
		ORDER BY pi.id
	`, userID)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func resolveShop(ctx context.Context, tx *sqlx.Tx, userID int64, name string) (int64, error) {
	var owned model.Shop
	err := tx.GetContext(ctx, &owned, `SELECT * FROM shops WHERE user_id = $1`, userID)
	switch {
	case err == nil:
		if owned.Name != name {
			return 0, importer.ErrOwnershipConflict
		}
		return owned.ID, nil
	case errors.Is(err, sql.ErrNoRows):
		// fallthrough to name lookup
	default:
		return 0, err
	}

	var existing model.Shop
	err = tx.GetContext(ctx, &existing, `SELECT * FROM shops WHERE name = $1`, name)
	switch {
	case err == nil:
		if existing.UserID != nil && *existing.UserID != userID {
			return 0, importer.ErrShopNameTaken
		}
		if existing.UserID == nil {
			_, err = tx.ExecContext(ctx, `UPDATE shops SET user_id = $1 WHERE id = $2`, userID, existing.ID)
			if err != nil {
				return 0, err
			}
		}
		return existing.ID, nil
	case errors.Is(err, sql.ErrNoRows):
		var id int64
		err = tx.GetContext(ctx, &id, `
			INSERT INTO shops (name, user_id, state) VALUES ($1, $2, TRUE)
			RETURNING id
		`, name, userID)
		if err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}
