package usecase

import (
	"context"
	"encoding/json"
	"storefront/internal/domain"
	"sync"

	"github.com/sirupsen/logrus"
)

// CartUseCase is the cart state container of one session. Every mutation is persisted
// best-effort; storage failures are logged and never returned.
type CartUseCase interface {
	AddItem(ctx context.Context, item domain.CartLineItem) domain.CartState
	RemoveItem(ctx context.Context, id string) domain.CartState
	UpdateQuantity(ctx context.Context, id string, quantity int) domain.CartState
	Clear(ctx context.Context) domain.CartState
	State() domain.CartState
	Summary() domain.OrderSummary
}

type cartUseCase struct {
	mu      sync.Mutex
	state   domain.CartState
	storage domain.Storage
	log     logrus.FieldLogger
}

// NewCartUseCase hydrates the cart from storage once. A missing, unreadable or malformed
// stored value yields an empty cart.
func NewCartUseCase(ctx context.Context, storage domain.Storage, logger logrus.FieldLogger) CartUseCase {
	uc := &cartUseCase{
		state:   domain.NewCartState(nil),
		storage: storage,
		log:     logger,
	}
	uc.hydrate(ctx)
	return uc
}

func (uc *cartUseCase) hydrate(ctx context.Context) {
	raw, found, err := uc.storage.Read(ctx, domain.CartStorageKey)
	if err != nil {
		uc.log.Errorf("Use Case: Error loading cart from storage: %v", err)
		return
	}
	if !found {
		return
	}
	var items []domain.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		uc.log.Errorf("Use Case: Error parsing stored cart, starting empty: %v", err)
		return
	}
	uc.state = domain.ReduceCart(uc.state, domain.CartAction{Type: domain.CartLoad, Items: items})
	uc.log.Debugf("Use Case: Cart hydrated with %d lines", len(uc.state.Items))
}

func (uc *cartUseCase) dispatch(ctx context.Context, action domain.CartAction) domain.CartState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.state = domain.ReduceCart(uc.state, action)
	uc.persist(ctx)
	return snapshotCart(uc.state)
}

// persist must be called with mu held.
func (uc *cartUseCase) persist(ctx context.Context) {
	payload, err := json.Marshal(uc.state.Items)
	if err != nil {
		uc.log.Errorf("Use Case: Error encoding cart: %v", err)
		return
	}
	if err := uc.storage.Write(ctx, domain.CartStorageKey, string(payload)); err != nil {
		uc.log.Errorf("Use Case: Error saving cart to storage: %v", err)
	}
}

func (uc *cartUseCase) AddItem(ctx context.Context, item domain.CartLineItem) domain.CartState {
	uc.log.Infof("Use Case: Adding %d x '%s' to cart", item.Quantity, item.ID)
	return uc.dispatch(ctx, domain.CartAction{Type: domain.CartAddItem, Item: item})
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, id string) domain.CartState {
	uc.log.Infof("Use Case: Removing '%s' from cart", id)
	return uc.dispatch(ctx, domain.CartAction{Type: domain.CartRemoveItem, ID: id})
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, id string, quantity int) domain.CartState {
	uc.log.Infof("Use Case: Setting quantity of '%s' to %d", id, quantity)
	return uc.dispatch(ctx, domain.CartAction{Type: domain.CartUpdateQuantity, ID: id, Quantity: quantity})
}

func (uc *cartUseCase) Clear(ctx context.Context) domain.CartState {
	uc.log.Info("Use Case: Clearing cart")
	return uc.dispatch(ctx, domain.CartAction{Type: domain.CartClear})
}

func (uc *cartUseCase) State() domain.CartState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return snapshotCart(uc.state)
}

func (uc *cartUseCase) Summary() domain.OrderSummary {
	return domain.SummarizeCart(uc.State())
}

func snapshotCart(state domain.CartState) domain.CartState {
	items := make([]domain.CartLineItem, len(state.Items))
	copy(items, state.Items)
	state.Items = items
	return state
}
