package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hleeroa/Autoshop/internal/catalog/dto"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) ActiveShops(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.DB.SelectContext(ctx, &shops, `SELECT * FROM shops WHERE state = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *PGRepository) SearchListings(ctx context.Context, f *dto.ListingFilters) ([]dto.Listing, error) {
	conditions := []string{"s.state = TRUE"}
	args := map[string]interface{}{}

	if f.ShopID > 0 {
		conditions = append(conditions, "pi.shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.CategoryID > 0 {
		conditions = append(conditions, "p.category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.Query != "" {
		conditions = append(conditions, "(p.name ILIKE :query OR pi.model ILIKE :query)")
		args["query"] = "%" + f.Query + "%"
	}

	query := `
		SELECT pi.id, pi.external_id, pi.model, pi.quantity, pi.price, pi.price_rrc,
		       pi.shop_id, p.name, p.category_id, c.name AS category_name
		FROM product_infos pi
		JOIN products p ON p.id = pi.product_id
		JOIN categories c ON c.id = p.category_id
		JOIN shops s ON s.id = pi.shop_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY pi.id`

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	var listings []dto.Listing
	if err := nstmt.SelectContext(ctx, &listings, args); err != nil {
		return nil, err
	}

	if err := r.attachParameters(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *PGRepository) ShopByUser(ctx context.Context, userID int64) (*model.Shop, error) {
	var shop model.Shop
	err := r.DB.GetContext(ctx, &shop, `SELECT * FROM shops WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

func (r *PGRepository) SetShopState(ctx context.Context, userID int64, state bool) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE shops SET state = $1 WHERE user_id = $2`, state, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type parameterRow struct {
	ProductInfoID int64  `db:"product_info_id"`
	Name          string `db:"name"`
	Value         string `db:"value"`
}

func (r *PGRepository) attachParameters(ctx context.Context, listings []dto.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]int64, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
	}

	query, args, err := sqlx.In(`
		SELECT pp.product_info_id, pa.name, pp.value
		FROM product_parameters pp
		JOIN parameters pa ON pa.id = pp.parameter_id
		WHERE pp.product_info_id IN (?)
		ORDER BY pa.name
	`, ids)
	if err != nil {
		return err
	}

	var rows []parameterRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	byListing := make(map[int64][]dto.ParameterValue, len(listings))
	for _, row := range rows {
		byListing[row.ProductInfoID] = append(byListing[row.ProductInfoID], dto.ParameterValue{Name: row.Name, Value: row.Value})
	}
	for i := range listings {
		listings[i].Parameters = byListing[listings[i].ID]
	}
	return nil
}
