package domain

import "context"

// Storage keys of the two persisted containers.
const (
	CartStorageKey     = "cart"
	WishlistStorageKey = "wishlist"
)

// Storage is a string key-value store scoped to one session.
// Read reports found=false when the key was never written.
type Storage interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
}

// StorageFactory hands out the Storage of a single session.
type StorageFactory interface {
	ForSession(sessionID string) Storage
	Close() error
}
