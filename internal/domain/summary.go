package domain

const (
	TaxRate               = 0.13
	FreeShippingThreshold = 50.0
	FlatShippingCost      = 10.0
	MaxCartItemQuantity   = 99
	MaxWishlistItems      = 100
	DefaultWishlistGroup  = "General"
)

// OrderSummary is the breakdown shown next to the cart before checkout.
type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// SummarizeCart adds 13% tax and a flat shipping fee waived from 50 upwards.
// An empty cart summarizes to all zeros.
func SummarizeCart(state CartState) OrderSummary {
	if len(state.Items) == 0 {
		return OrderSummary{}
	}
	subtotal := 0.0
	for _, it := range state.Items {
		subtotal += it.Price * float64(it.Quantity)
	}
	shipping := FlatShippingCost
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * TaxRate
	return OrderSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
