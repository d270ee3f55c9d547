package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"storefront/internal/domain"
	"storefront/internal/usecase"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	catalog domain.ProductRepository
	log     *logrus.Logger
}

func NewCartHandler(catalog domain.ProductRepository, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		catalog: catalog,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.POST("/items/:id/move-to-wishlist", h.MoveToWishlist)
	}
	router.POST("/checkout/complete", h.CompleteCheckout)
}

type cartView struct {
	domain.CartState
	Summary domain.OrderSummary `json:"summary"`
}

func newCartView(state domain.CartState) cartView {
	return cartView{CartState: state, Summary: domain.SummarizeCart(state)}
}

// addToCartRequest adds either a catalog product by slug, or a line item the caller has
// already captured (id, name, price, image).
type addToCartRequest struct {
	Slug     string  `json:"slug"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" binding:"gte=0"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	PayerID string `json:"payerId"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart := usecase.CartFromContext(c.Request.Context())
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", newCartView(cart.State()))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	ctx := c.Request.Context()
	cart := usecase.CartFromContext(ctx)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for add to cart: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	line, err := h.lineFromRequest(c, req)
	if err != nil {
		h.log.Warnf("Rejected add to cart: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add item: "+err.Error())
		return
	}

	for _, existing := range cart.State().Items {
		if existing.ID == line.ID && existing.Quantity+line.Quantity > domain.MaxCartItemQuantity {
			h.log.Warnf("Rejected add to cart: '%s' would exceed %d", line.ID, domain.MaxCartItemQuantity)
			ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("Failed to add item: quantity above %d: %v", domain.MaxCartItemQuantity, domain.ErrInvalidQuantity))
			return
		}
	}

	state := cart.AddItem(ctx, line)
	SuccessResponse(c, http.StatusOK, "Item added to cart", newCartView(state))
}

func (h *CartHandler) lineFromRequest(c *gin.Context, req addToCartRequest) (domain.CartLineItem, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > domain.MaxCartItemQuantity {
		return domain.CartLineItem{}, fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	if req.Slug == "" {
		if strings.TrimSpace(req.ID) == "" {
			return domain.CartLineItem{}, domain.ErrInvalidItem
		}
		return domain.CartLineItem{
			ID:       req.ID,
			Name:     req.Name,
			Price:    req.Price,
			Image:    req.Image,
			Quantity: quantity,
			Size:     req.Size,
		}, nil
	}

	product, err := h.catalog.GetProductBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		return domain.CartLineItem{}, err
	}
	if req.Size != "" && len(product.Sizes) > 0 && !containsString(product.Sizes, req.Size) {
		return domain.CartLineItem{}, fmt.Errorf("invalid size %q for %s", req.Size, product.Slug)
	}
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return domain.CartLineItem{
		ID:       product.Slug,
		Name:     product.Name,
		Price:    product.Price,
		Image:    image,
		Quantity: quantity,
		Size:     req.Size,
	}, nil
}

// UpdateQuantity sets an absolute quantity; zero or below removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	ctx := c.Request.Context()
	cart := usecase.CartFromContext(ctx)
	id := c.Param("id")

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for update quantity of '%s': %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if *req.Quantity > domain.MaxCartItemQuantity {
		h.log.Warnf("Rejected quantity %d for '%s'", *req.Quantity, id)
		ErrorResponse(c, http.StatusBadRequest, "Failed to update quantity: "+domain.ErrInvalidQuantity.Error())
		return
	}

	state := cart.UpdateQuantity(ctx, id, *req.Quantity)
	SuccessResponse(c, http.StatusOK, "Cart updated", newCartView(state))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx := c.Request.Context()
	state := usecase.CartFromContext(ctx).RemoveItem(ctx, c.Param("id"))
	SuccessResponse(c, http.StatusOK, "Item removed from cart", newCartView(state))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx := c.Request.Context()
	state := usecase.CartFromContext(ctx).Clear(ctx)
	SuccessResponse(c, http.StatusOK, "Cart cleared", newCartView(state))
}

func (h *CartHandler) MoveToWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	cart := usecase.CartFromContext(ctx)
	wishlist := usecase.WishlistFromContext(ctx)
	id := c.Param("id")

	if !wishlist.IsInWishlist(id) && wishlist.State().ItemCount >= domain.MaxWishlistItems {
		ErrorResponse(c, mapErrorToStatus(domain.ErrWishlistFull), "Failed to move item: "+domain.ErrWishlistFull.Error())
		return
	}

	cartState, wishlistState, err := usecase.MoveToWishlist(ctx, cart, wishlist, h.catalog, id, h.log)
	if err != nil {
		h.log.Warnf("Failed to move '%s' to wishlist: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to move item: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Item moved to wishlist", gin.H{
		"cart":     newCartView(cartState),
		"wishlist": wishlistState,
	})
}

// CompleteCheckout is called once the payment widget approves an order. It empties the cart
// and echoes what was paid.
func (h *CartHandler) CompleteCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	cart := usecase.CartFromContext(ctx)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for checkout completion: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	paid := cart.State()
	if len(paid.Items) == 0 {
		err := errors.New("invalid checkout: cart is empty")
		h.log.Warnf("Checkout %s: %v", req.OrderID, err)
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	summary := domain.SummarizeCart(paid)
	cart.Clear(ctx)

	h.log.WithFields(logrus.Fields{
		"order": req.OrderID,
		"payer": req.PayerID,
		"total": summary.Total,
	}).Info("Checkout completed, cart cleared")
	SuccessResponse(c, http.StatusOK, "Order completed", gin.H{
		"orderId": req.OrderID,
		"items":   paid.Items,
		"summary": summary,
	})
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
