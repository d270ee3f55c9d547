package usecase

import (
	"context"
	"encoding/json"
	"storefront/internal/domain"
	"sync"

	"github.com/sirupsen/logrus"
)

type WishlistUseCase interface {
	AddItem(ctx context.Context, item domain.WishlistItem) domain.WishlistState
	RemoveItem(ctx context.Context, id string) domain.WishlistState
	Clear(ctx context.Context) domain.WishlistState
	IsInWishlist(id string) bool
	State() domain.WishlistState
}

type wishlistUseCase struct {
	mu      sync.Mutex
	state   domain.WishlistState
	storage domain.Storage
	log     logrus.FieldLogger
}

func NewWishlistUseCase(ctx context.Context, storage domain.Storage, logger logrus.FieldLogger) WishlistUseCase {
	uc := &wishlistUseCase{
		state:   domain.NewWishlistState(nil),
		storage: storage,
		log:     logger,
	}
	uc.hydrate(ctx)
	return uc
}

func (uc *wishlistUseCase) hydrate(ctx context.Context) {
	raw, found, err := uc.storage.Read(ctx, domain.WishlistStorageKey)
	if err != nil {
		uc.log.Errorf("Use Case: Error loading wishlist from storage: %v", err)
		return
	}
	if !found {
		return
	}
	var items []domain.WishlistItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		uc.log.Errorf("Use Case: Error parsing stored wishlist, starting empty: %v", err)
		return
	}
	uc.state = domain.ReduceWishlist(uc.state, domain.WishlistAction{Type: domain.WishlistLoad, Items: items})
}

func (uc *wishlistUseCase) dispatch(ctx context.Context, action domain.WishlistAction) domain.WishlistState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.state = domain.ReduceWishlist(uc.state, action)
	payload, err := json.Marshal(uc.state.Items)
	if err != nil {
		uc.log.Errorf("Use Case: Error encoding wishlist: %v", err)
	} else if err := uc.storage.Write(ctx, domain.WishlistStorageKey, string(payload)); err != nil {
		uc.log.Errorf("Use Case: Error saving wishlist to storage: %v", err)
	}
	return snapshotWishlist(uc.state)
}

func (uc *wishlistUseCase) AddItem(ctx context.Context, item domain.WishlistItem) domain.WishlistState {
	uc.log.Infof("Use Case: Adding '%s' to wishlist", item.ID)
	return uc.dispatch(ctx, domain.WishlistAction{Type: domain.WishlistAddItem, Item: item})
}

func (uc *wishlistUseCase) RemoveItem(ctx context.Context, id string) domain.WishlistState {
	uc.log.Infof("Use Case: Removing '%s' from wishlist", id)
	return uc.dispatch(ctx, domain.WishlistAction{Type: domain.WishlistRemoveItem, ID: id})
}

func (uc *wishlistUseCase) Clear(ctx context.Context) domain.WishlistState {
	uc.log.Info("Use Case: Clearing wishlist")
	return uc.dispatch(ctx, domain.WishlistAction{Type: domain.WishlistClear})
}

func (uc *wishlistUseCase) IsInWishlist(id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return domain.ContainsWishlistItem(uc.state.Items, id)
}

func (uc *wishlistUseCase) State() domain.WishlistState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return snapshotWishlist(uc.state)
}

func snapshotWishlist(state domain.WishlistState) domain.WishlistState {
	items := make([]domain.WishlistItem, len(state.Items))
	copy(items, state.Items)
	state.Items = items
	return state
}
