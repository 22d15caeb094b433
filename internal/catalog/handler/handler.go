package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hleeroa/Autoshop/internal/catalog"
	"github.com/hleeroa/Autoshop/internal/catalog/dto"
	"github.com/hleeroa/Autoshop/internal/httpapi"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: log}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	httpapi.OK(c, gin.H{"categories": categories})
}

func (h *CatalogHandler) ListShops(c *gin.Context) {
	shops, err := h.uc.ListShops(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list shops", zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to list shops")
		return
	}
	httpapi.OK(c, gin.H{"shops": shops})
}

func (h *CatalogHandler) SearchListings(c *gin.Context) {
	filters := &dto.ListingFilters{Query: c.Query("search")}
	if raw := c.Query("shop_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
			return
		}
		filters.ShopID = id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
			return
		}
		filters.CategoryID = id
	}

	listings, err := h.uc.SearchListings(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to search listings", zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to search products")
		return
	}
	httpapi.OK(c, gin.H{"products": listings})
}

func (h *CatalogHandler) ShopState(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	shop, err := h.uc.ShopState(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNoShop) {
			httpapi.Fail(c, http.StatusOK, "shop not found")
			return
		}
		h.logger.Error("failed to load shop state", zap.Int64("user_id", user.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to load shop state")
		return
	}
	httpapi.OK(c, gin.H{"shop": shop})
}

type shopStateRequest struct {
	State json.RawMessage `json:"state"`
}

// parseShopState accepts a JSON bool as well as the legacy string
// forms ("on"/"off", "true"/"false", "1"/"0").
func parseShopState(raw json.RawMessage) (bool, bool) {
	// Unmarshal treats null as a no-op on a bool target.
	if string(raw) == "null" {
		return false, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "true", "1":
			return true, true
		case "off", "false", "0":
			return false, true
		}
	}
	return false, false
}

func (h *CatalogHandler) SetShopState(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	var req shopStateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.State) == 0 {
		httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		return
	}
	state, ok := parseShopState(req.State)
	if !ok {
		httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		return
	}

	if err := h.uc.SetShopState(c.Request.Context(), user.ID, state); err != nil {
		if errors.Is(err, catalog.ErrNoShop) {
			httpapi.Fail(c, http.StatusOK, "shop not found")
			return
		}
		h.logger.Error("failed to set shop state", zap.Int64("user_id", user.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to set shop state")
		return
	}
	httpapi.OK(c, nil)
}
