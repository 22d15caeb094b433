package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hleeroa/Autoshop/internal/catalog"
	"github.com/hleeroa/Autoshop/internal/catalog/dto"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/pkg/cache"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/hleeroa/Autoshop/pkg/search"
	"go.uber.org/zap"
)

const (
	listingIndex    = "listings"
	listingCacheTTL = 5 * time.Minute
)

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, cacheClient *cache.RedisClient, es *search.Client, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cacheClient,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.Categories(ctx)
}

func (uc *catalogUseCase) ListShops(ctx context.Context) ([]model.Shop, error) {
	return uc.repo.ActiveShops(ctx)
}

func (uc *catalogUseCase) SearchListings(ctx context.Context, filters *dto.ListingFilters) ([]dto.Listing, error) {
	cacheKey := listingCacheKey(filters)
	if uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached []dto.Listing
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	if filters.Query != "" && uc.es != nil {
		listings, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return listings, nil
		}
		uc.logger.Error("search index query failed, falling back to DB", zap.Error(err))
	}

	listings, err := uc.repo.SearchListings(ctx, filters)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(listings); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listingCacheTTL)
		}
	}

	return listings, nil
}

func (uc *catalogUseCase) searchElastic(ctx context.Context, filters *dto.ListingFilters) ([]dto.Listing, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.Query),
				"fields": []string{"name^3", "model"},
			},
		},
	}
	if filters.ShopID > 0 {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"shop_id": filters.ShopID},
		})
	}
	if filters.CategoryID > 0 {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category_id": filters.CategoryID},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}

	res, err := uc.es.Search(ctx, listingIndex, query)
	if err != nil {
		return nil, err
	}

	listings := make([]dto.Listing, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var l dto.Listing
		if err := json.Unmarshal(hit.Source, &l); err == nil {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

func listingCacheKey(filters *dto.ListingFilters) string {
	data, _ := json.Marshal(filters)
	return fmt.Sprintf("listings:search:%x", md5.Sum(data))
}

func (uc *catalogUseCase) ShopState(ctx context.Context, userID int64) (*model.Shop, error) {
	shop, err := uc.repo.ShopByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, catalog.ErrNoShop
	}
	return shop, nil
}

func (uc *catalogUseCase) SetShopState(ctx context.Context, userID int64, state bool) error {
	matched, err := uc.repo.SetShopState(ctx, userID, state)
	if err != nil {
		return err
	}
	if matched == 0 {
		return catalog.ErrNoShop
	}
	return nil
}
