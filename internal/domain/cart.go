package domain

// CartLineItem is one product line in a cart. Identity is ID alone; Size is informational.
type CartLineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
}

type CartState struct {
	Items     []CartLineItem `json:"items"`
	ItemCount int            `json:"itemCount"`
	Total     float64        `json:"total"`
}

type CartActionType int

const (
	CartAddItem CartActionType = iota
	CartRemoveItem
	CartUpdateQuantity
	CartClear
	CartLoad
)

// CartAction is the tagged input to ReduceCart. Only the fields relevant to Type are read.
type CartAction struct {
	Type     CartActionType
	Item     CartLineItem
	ID       string
	Quantity int
	Items    []CartLineItem
}

func NewCartState(items []CartLineItem) CartState {
	if items == nil {
		items = []CartLineItem{}
	}
	return withCartTotals(items)
}

// ReduceCart computes the next cart state. The input state is never modified.
func ReduceCart(state CartState, action CartAction) CartState {
	switch action.Type {
	case CartAddItem:
		idx := indexOfLine(state.Items, action.Item.ID)
		if idx >= 0 {
			items := cloneLines(state.Items)
			items[idx].Quantity += action.Item.Quantity
			return withCartTotals(items)
		}
		items := append(cloneLines(state.Items), action.Item)
		return withCartTotals(items)

	case CartRemoveItem:
		if indexOfLine(state.Items, action.ID) < 0 {
			return state
		}
		items := make([]CartLineItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID != action.ID {
				items = append(items, it)
			}
		}
		return withCartTotals(items)

	case CartUpdateQuantity:
		if action.Quantity <= 0 {
			return ReduceCart(state, CartAction{Type: CartRemoveItem, ID: action.ID})
		}
		idx := indexOfLine(state.Items, action.ID)
		if idx < 0 {
			return state
		}
		items := cloneLines(state.Items)
		items[idx].Quantity = action.Quantity
		return withCartTotals(items)

	case CartClear:
		return NewCartState(nil)

	case CartLoad:
		return NewCartState(cloneLines(action.Items))
	}
	return state
}

func withCartTotals(items []CartLineItem) CartState {
	count := 0
	total := 0.0
	for _, it := range items {
		count += it.Quantity
		total += it.Price * float64(it.Quantity)
	}
	return CartState{Items: items, ItemCount: count, Total: total}
}

func indexOfLine(items []CartLineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneLines(items []CartLineItem) []CartLineItem {
	out := make([]CartLineItem, len(items))
	copy(out, items)
	return out
}
