package domain

type WishlistItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

type WishlistState struct {
	Items     []WishlistItem `json:"items"`
	ItemCount int            `json:"itemCount"`
}

type WishlistActionType int

const (
	WishlistAddItem WishlistActionType = iota
	WishlistRemoveItem
	WishlistClear
	WishlistLoad
)

type WishlistAction struct {
	Type  WishlistActionType
	Item  WishlistItem
	ID    string
	Items []WishlistItem
}

func NewWishlistState(items []WishlistItem) WishlistState {
	if items == nil {
		items = []WishlistItem{}
	}
	return WishlistState{Items: items, ItemCount: len(items)}
}

// ReduceWishlist computes the next wishlist state. Adding an id that is already present
// returns the state untouched: the stored entry keeps its fields and position.
func ReduceWishlist(state WishlistState, action WishlistAction) WishlistState {
	switch action.Type {
	case WishlistAddItem:
		if ContainsWishlistItem(state.Items, action.Item.ID) {
			return state
		}
		items := make([]WishlistItem, len(state.Items), len(state.Items)+1)
		copy(items, state.Items)
		return NewWishlistState(append(items, action.Item))

	case WishlistRemoveItem:
		if !ContainsWishlistItem(state.Items, action.ID) {
			return state
		}
		items := make([]WishlistItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID != action.ID {
				items = append(items, it)
			}
		}
		return NewWishlistState(items)

	case WishlistClear:
		return NewWishlistState(nil)

	case WishlistLoad:
		items := make([]WishlistItem, len(action.Items))
		copy(items, action.Items)
		return NewWishlistState(items)
	}
	return state
}

func ContainsWishlistItem(items []WishlistItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
