package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/notify"
	"github.com/hleeroa/Autoshop/internal/order"
	"github.com/hleeroa/Autoshop/internal/order/dto"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type orderUseCase struct {
	repo      order.Repository
	locker    order.Locker
	publisher order.Publisher
	logger    logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, locker order.Locker, publisher order.Publisher, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		logger:    log,
	}
}

// lockBasket serializes same-user basket mutations; two concurrent
// add calls must not race the get-or-create step.
func (uc *orderUseCase) lockBasket(ctx context.Context, userID int64) (func(), error) {
	key := fmt.Sprintf("lock:basket:%d", userID)
	value := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire basket lock", zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
					uc.logger.Error("failed to release basket lock", zap.Error(err))
				}
			}, nil
		}
		time.Sleep(lockBackoff)
	}
	return nil, order.ErrBusy
}

func (uc *orderUseCase) GetBasket(ctx context.Context, userID int64) (*model.Order, error) {
	return uc.repo.BasketWithItems(ctx, userID)
}

func (uc *orderUseCase) AddItems(ctx context.Context, userID int64, items []dto.ItemSpec) (*dto.AddResult, error) {
	if len(items) == 0 {
		return nil, order.ErrMissingArguments
	}

	unlock, err := uc.lockBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	basket, err := uc.repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.AddResult{}
	for _, item := range items {
		if item.Quantity <= 0 {
			result.Errors = append(result.Errors, dto.ItemError{ID: item.ProductInfoID, Error: "quantity must be a positive integer"})
			continue
		}
		exists, err := uc.repo.ListingExists(ctx, item.ProductInfoID)
		if err != nil {
			return nil, err
		}
		if !exists {
			result.Errors = append(result.Errors, dto.ItemError{ID: item.ProductInfoID, Error: "this item does not exist"})
			continue
		}

		if err := uc.repo.InsertItem(ctx, basket.ID, item.ProductInfoID, item.Quantity); err != nil {
			if errors.Is(err, order.ErrDuplicateItem) {
				result.Errors = append(result.Errors, dto.ItemError{ID: item.ProductInfoID, Error: "item already in basket"})
				continue
			}
			return nil, err
		}
		result.Created++
	}

	return result, nil
}

func (uc *orderUseCase) UpdateItems(ctx context.Context, userID int64, items []dto.UpdateSpec) (*dto.UpdateResult, error) {
	if len(items) == 0 {
		return nil, order.ErrMissingArguments
	}

	unlock, err := uc.lockBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	basket, err := uc.repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.UpdateResult{}
	for _, item := range items {
		// Ill-formed entries are skipped, not errors.
		if item.ID <= 0 || item.Quantity <= 0 {
			continue
		}
		n, err := uc.repo.UpdateItemQuantity(ctx, basket.ID, item.ID, item.Quantity)
		if err != nil {
			return nil, err
		}
		result.Updated += int(n)
	}

	return result, nil
}

func (uc *orderUseCase) RemoveItems(ctx context.Context, userID int64, rawIDs []string) (*dto.RemoveResult, error) {
	var ids []int64
	for _, raw := range rawIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, order.ErrMissingArguments
	}

	unlock, err := uc.lockBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	basket, err := uc.repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}

	deleted, err := uc.repo.DeleteItems(ctx, basket.ID, ids)
	if err != nil {
		return nil, err
	}
	return &dto.RemoveResult{Deleted: int(deleted)}, nil
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, userID, orderID, contactID int64) error {
	if orderID <= 0 || contactID <= 0 {
		return order.ErrMissingArguments
	}

	owned, err := uc.repo.ContactOwned(ctx, userID, contactID)
	if err != nil {
		return err
	}
	if !owned {
		return order.ErrNotFound
	}

	matched, err := uc.repo.Place(ctx, userID, orderID, contactID)
	if err != nil {
		return err
	}
	if matched == 0 {
		return order.ErrNotFound
	}

	uc.publishConfirmation(userID, orderID)
	return nil
}

// publishConfirmation is fire and forget: a broker outage must not
// unwind a placed order.
func (uc *orderUseCase) publishConfirmation(userID, orderID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email, err := uc.repo.UserEmail(ctx, userID)
	if err != nil {
		uc.logger.Error("failed to resolve user email for confirmation", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	event := notify.NewEvent(notify.EventOrderPlaced, email, map[string]string{
		"order_id": strconv.FormatInt(orderID, 10),
	})
	payload, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal confirmation event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, []byte(event.ID), payload); err != nil {
		uc.logger.Error("failed to publish confirmation event", zap.Int64("order_id", orderID), zap.Error(err))
	}
}

func (uc *orderUseCase) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return uc.repo.Orders(ctx, userID)
}

func (uc *orderUseCase) PartnerOrders(ctx context.Context, partnerUserID int64) ([]model.Order, error) {
	return uc.repo.PartnerOrders(ctx, partnerUserID)
}
