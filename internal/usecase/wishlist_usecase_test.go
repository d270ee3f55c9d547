package usecase

import (
	"context"
	"encoding/json"
	"storefront/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistUseCase_HydrateAndPersist(t *testing.T) {
	ctx := context.Background()
	store := newMapStorage()
	store.data[domain.WishlistStorageKey] = `[{"id":"x","name":"X","price":10,"image":"x.jpg","category":"Shawls"}]`

	uc := NewWishlistUseCase(ctx, store, quietLogger())
	assert.True(t, uc.IsInWishlist("x"))
	assert.False(t, uc.IsInWishlist("y"))

	uc.AddItem(ctx, domain.WishlistItem{ID: "x", Price: 20})
	uc.AddItem(ctx, domain.WishlistItem{ID: "y", Name: "Y", Price: 5, Category: "General"})

	var stored []domain.WishlistItem
	require.NoError(t, json.Unmarshal([]byte(store.get(domain.WishlistStorageKey)), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, 10.0, stored[0].Price)
	assert.Equal(t, "y", stored[1].ID)
	assert.Equal(t, 2, uc.State().ItemCount)

	uc.RemoveItem(ctx, "x")
	assert.False(t, uc.IsInWishlist("x"))
	uc.Clear(ctx)
	assert.Equal(t, "[]", store.get(domain.WishlistStorageKey))
}

func TestWishlistUseCase_MalformedStoredValueStartsEmpty(t *testing.T) {
	store := newMapStorage()
	store.data[domain.WishlistStorageKey] = "invalid-json"

	uc := NewWishlistUseCase(context.Background(), store, quietLogger())
	assert.Empty(t, uc.State().Items)
	assert.Zero(t, uc.State().ItemCount)
}

func TestWishlistUseCase_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newMapStorage()
	store.failWrite = true

	uc := NewWishlistUseCase(ctx, store, quietLogger())
	state := uc.AddItem(ctx, domain.WishlistItem{ID: "x"})

	assert.Equal(t, 1, state.ItemCount)
	assert.True(t, uc.IsInWishlist("x"))
}
