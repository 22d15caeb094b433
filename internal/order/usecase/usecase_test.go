package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/notify"
	"github.com/hleeroa/Autoshop/internal/order"
	"github.com/hleeroa/Autoshop/internal/order/dto"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type basketLine struct {
	id            int64
	productInfoID int64
	quantity      int
}

type fakeRepo struct {
	mu       sync.Mutex
	nextID   int64
	baskets  map[int64]*model.Order // by user id
	lines    map[int64][]basketLine // by order id
	listings map[int64]bool
	contacts map[int64]int64 // contact id -> owner
	placed   map[int64]int64 // order id -> contact id
	emails   map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:   1,
		baskets:  make(map[int64]*model.Order),
		lines:    make(map[int64][]basketLine),
		listings: make(map[int64]bool),
		contacts: make(map[int64]int64),
		placed:   make(map[int64]int64),
		emails:   make(map[int64]string),
	}
}

func (f *fakeRepo) GetOrCreateBasket(_ context.Context, userID int64) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.baskets[userID]; ok {
		return b, nil
	}
	b := &model.Order{ID: f.nextID, UserID: userID, State: model.OrderStateBasket}
	f.nextID++
	f.baskets[userID] = b
	return b, nil
}

func (f *fakeRepo) BasketWithItems(_ context.Context, userID int64) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.baskets[userID]
	if !ok {
		return nil, nil
	}
	copied := *b
	for _, l := range f.lines[b.ID] {
		copied.Items = append(copied.Items, model.OrderItem{
			ID: l.id, OrderID: b.ID, ProductInfoID: l.productInfoID, Quantity: l.quantity,
		})
	}
	return &copied, nil
}

func (f *fakeRepo) ListingExists(_ context.Context, productInfoID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listings[productInfoID], nil
}

func (f *fakeRepo) InsertItem(_ context.Context, orderID, productInfoID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines[orderID] {
		if l.productInfoID == productInfoID {
			return order.ErrDuplicateItem
		}
	}
	f.lines[orderID] = append(f.lines[orderID], basketLine{id: f.nextID, productInfoID: productInfoID, quantity: quantity})
	f.nextID++
	return nil
}

func (f *fakeRepo) UpdateItemQuantity(_ context.Context, orderID, itemID int64, quantity int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lines[orderID] {
		if l.id == itemID {
			f.lines[orderID][i].quantity = quantity
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRepo) DeleteItems(_ context.Context, orderID int64, itemIDs []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = true
	}
	var kept []basketLine
	var deleted int64
	for _, l := range f.lines[orderID] {
		if drop[l.id] {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	f.lines[orderID] = kept
	return deleted, nil
}

func (f *fakeRepo) ContactOwned(_ context.Context, userID, contactID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contacts[contactID] == userID, nil
}

func (f *fakeRepo) Place(_ context.Context, userID, orderID, contactID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.baskets[userID]
	if !ok || b.ID != orderID || b.State != model.OrderStateBasket {
		return 0, nil
	}
	b.State = model.OrderStateNew
	f.placed[orderID] = contactID
	return 1, nil
}

func (f *fakeRepo) Orders(context.Context, int64) ([]model.Order, error) {
	return nil, nil
}

func (f *fakeRepo) PartnerOrders(context.Context, int64) ([]model.Order, error) {
	return nil, nil
}

func (f *fakeRepo) UserEmail(_ context.Context, userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emails[userID], nil
}

type fakeLocker struct {
	mu     sync.Mutex
	held   map[string]string
	denied bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (f *fakeLocker) AcquireLock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied {
		return false, nil
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = value
	return true, nil
}

func (f *fakeLocker) ReleaseLock(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] == value {
		delete(f.held, key)
	}
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, _, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, value)
	return nil
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		Level:             "fatal",
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
	})
}

func TestAddItems(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	repo.listings[11] = true
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	result, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{
		{ProductInfoID: 10, Quantity: 2},
		{ProductInfoID: 11, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)

	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, basket)
	assert.Len(t, basket.Items, 2)
}

func TestAddItemsPartialSuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	result, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{
		{ProductInfoID: 10, Quantity: 2},
		{ProductInfoID: 10, Quantity: 1}, // duplicate
		{ProductInfoID: 99, Quantity: 1}, // unknown listing
		{ProductInfoID: 10, Quantity: 0}, // bad quantity
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "item already in basket", result.Errors[0].Error)
	assert.Equal(t, "this item does not exist", result.Errors[1].Error)
	assert.Equal(t, "quantity must be a positive integer", result.Errors[2].Error)
}

func TestAddItemsEmpty(t *testing.T) {
	uc := NewOrderUseCase(newFakeRepo(), newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, nil)
	assert.ErrorIs(t, err, order.ErrMissingArguments)
}

func TestAddItemsBusy(t *testing.T) {
	locker := newFakeLocker()
	locker.denied = true
	uc := NewOrderUseCase(newFakeRepo(), locker, &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 10, Quantity: 1}})
	assert.ErrorIs(t, err, order.ErrBusy)
}

func TestOneBasketPerUser(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	repo.listings[11] = true
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 10, Quantity: 1}})
	require.NoError(t, err)
	_, err = uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 11, Quantity: 1}})
	require.NoError(t, err)

	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, basket.Items, 2)
	assert.Len(t, repo.baskets, 1)
}

func TestUpdateItemsSkipsUnmatched(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 10, Quantity: 1}})
	require.NoError(t, err)

	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)
	itemID := basket.Items[0].ID

	result, err := uc.UpdateItems(context.Background(), 1, []dto.UpdateSpec{
		{ID: itemID, Quantity: 5},
		{ID: 9999, Quantity: 2}, // matches nothing
		{ID: 0, Quantity: 2},    // ill-formed, skipped
		{ID: itemID, Quantity: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	basket, err = uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, basket.Items[0].Quantity)
}

func TestRemoveItemsFiltersIDs(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	repo.listings[11] = true
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{
		{ProductInfoID: 10, Quantity: 1},
		{ProductInfoID: 11, Quantity: 1},
	})
	require.NoError(t, err)

	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)
	first := strconv.FormatInt(basket.Items[0].ID, 10)

	result, err := uc.RemoveItems(context.Background(), 1, []string{" " + first + " ", "abc", "-4"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	basket, err = uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, basket.Items, 1)
}

func TestRemoveItemsNoValidIDs(t *testing.T) {
	uc := NewOrderUseCase(newFakeRepo(), newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.RemoveItems(context.Background(), 1, []string{"abc", "", "-1"})
	assert.ErrorIs(t, err, order.ErrMissingArguments)
}

func TestPlaceOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	repo.contacts[5] = 1
	repo.emails[1] = "buyer@example.com"
	pub := &fakePublisher{}
	uc := NewOrderUseCase(repo, newFakeLocker(), pub, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 10, Quantity: 1}})
	require.NoError(t, err)

	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, uc.PlaceOrder(context.Background(), 1, basket.ID, 5))

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.messages, 1)
	var event notify.Event
	require.NoError(t, json.Unmarshal(pub.messages[0], &event))
	assert.Equal(t, notify.EventOrderPlaced, event.Type)
	assert.Equal(t, "buyer@example.com", event.Email)
	assert.Equal(t, strconv.FormatInt(basket.ID, 10), event.Payload["order_id"])
}

func TestPlaceOrderForeignContact(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	repo.contacts[5] = 2 // belongs to someone else
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 10, Quantity: 1}})
	require.NoError(t, err)
	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)

	err = uc.PlaceOrder(context.Background(), 1, basket.ID, 5)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestPlaceOrderAlreadyPlaced(t *testing.T) {
	repo := newFakeRepo()
	repo.listings[10] = true
	repo.contacts[5] = 1
	repo.emails[1] = "buyer@example.com"
	uc := NewOrderUseCase(repo, newFakeLocker(), &fakePublisher{}, testLogger())

	_, err := uc.AddItems(context.Background(), 1, []dto.ItemSpec{{ProductInfoID: 10, Quantity: 1}})
	require.NoError(t, err)
	basket, err := uc.GetBasket(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, uc.PlaceOrder(context.Background(), 1, basket.ID, 5))

	err = uc.PlaceOrder(context.Background(), 1, basket.ID, 5)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestPlaceOrderMissingArguments(t *testing.T) {
	uc := NewOrderUseCase(newFakeRepo(), newFakeLocker(), &fakePublisher{}, testLogger())

	assert.ErrorIs(t, uc.PlaceOrder(context.Background(), 1, 0, 5), order.ErrMissingArguments)
	assert.ErrorIs(t, uc.PlaceOrder(context.Background(), 1, 3, 0), order.ErrMissingArguments)
}
