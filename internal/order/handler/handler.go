package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hleeroa/Autoshop/internal/httpapi"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/order"
	"github.com/hleeroa/Autoshop/internal/order/dto"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) GetBasket(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	basket, err := h.uc.GetBasket(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to load basket", zap.Int64("user_id", user.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to load basket")
		return
	}
	if basket == nil {
		httpapi.OK(c, gin.H{"basket": []model.Order{}})
		return
	}
	httpapi.OK(c, gin.H{"basket": []model.Order{*basket}})
}

type addItemsRequest struct {
	Items []dto.ItemSpec `json:"items"`
}

func (h *OrderHandler) AddItems(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	var req addItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	result, err := h.uc.AddItems(c.Request.Context(), user.ID, req.Items)
	if err != nil {
		h.failMutation(c, user.ID, "add items", err)
		return
	}

	httpapi.OK(c, gin.H{"created": result.Created, "errors": result.Errors})
}

type updateItemsRequest struct {
	Items []dto.UpdateSpec `json:"items"`
}

func (h *OrderHandler) UpdateItems(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	var req updateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	result, err := h.uc.UpdateItems(c.Request.Context(), user.ID, req.Items)
	if err != nil {
		h.failMutation(c, user.ID, "update items", err)
		return
	}

	httpapi.OK(c, gin.H{"updated": result.Updated})
}

type removeItemsRequest struct {
	Items json.RawMessage `json:"items"`
}

func (h *OrderHandler) RemoveItems(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	var req removeItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	ids, ok := parseIDList(req.Items)
	if !ok {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	result, err := h.uc.RemoveItems(c.Request.Context(), user.ID, ids)
	if err != nil {
		h.failMutation(c, user.ID, "remove items", err)
		return
	}

	httpapi.OK(c, gin.H{"deleted": result.Deleted})
}

// parseIDList accepts either the original's comma-separated string
// ("1, 2, 3") or a structured list of ids.
func parseIDList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, true
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.Split(asString, ","), true
	}

	var asList []json.Number
	if err := json.Unmarshal(raw, &asList); err == nil {
		ids := make([]string, len(asList))
		for i, n := range asList {
			ids[i] = n.String()
		}
		return ids, true
	}

	return nil, false
}

type placeOrderRequest struct {
	ID      json.Number `json:"id"`
	Contact json.Number `json:"contact"`
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	orderID, err1 := strconv.ParseInt(req.ID.String(), 10, 64)
	contactID, err2 := strconv.ParseInt(req.Contact.String(), 10, 64)
	if err1 != nil || err2 != nil {
		httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		return
	}

	if err := h.uc.PlaceOrder(c.Request.Context(), user.ID, orderID, contactID); err != nil {
		switch {
		case errors.Is(err, order.ErrMissingArguments):
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		case errors.Is(err, order.ErrNotFound):
			httpapi.Fail(c, http.StatusOK, "order or contact not found")
		default:
			h.logger.Error("failed to place order", zap.Int64("user_id", user.ID), zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	httpapi.OK(c, nil)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	orders, err := h.uc.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Int64("user_id", user.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	httpapi.OK(c, gin.H{"orders": orders})
}

func (h *OrderHandler) PartnerOrders(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	orders, err := h.uc.PartnerOrders(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list partner orders", zap.Int64("user_id", user.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	httpapi.OK(c, gin.H{"orders": orders})
}

func (h *OrderHandler) failMutation(c *gin.Context, userID int64, op string, err error) {
	switch {
	case errors.Is(err, order.ErrMissingArguments):
		httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
	case errors.Is(err, order.ErrBusy):
		httpapi.Fail(c, http.StatusOK, "basket is busy, try again")
	default:
		h.logger.Error("basket mutation failed", zap.String("op", op), zap.Int64("user_id", userID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "operation failed")
	}
}
