package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("invalid quantity specified")
	ErrInvalidItem     = errors.New("invalid item: id cannot be empty")
	ErrInvalidPrice    = errors.New("invalid price range")
	ErrWishlistFull    = errors.New("wishlist is full")
	ErrUnknownDriver   = errors.New("unknown driver")
)
