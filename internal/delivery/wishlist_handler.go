package delivery

import (
	"net/http"
	"storefront/internal/domain"
	"storefront/internal/usecase"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WishlistHandler struct {
	catalog domain.ProductRepository
	log     *logrus.Logger
}

func NewWishlistHandler(catalog domain.ProductRepository, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		catalog: catalog,
		log:     logger,
	}
}

func (h *WishlistHandler) RegisterRoutes(router gin.IRouter) {
	wishlist := router.Group("/wishlist")
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.DELETE("", h.ClearWishlist)
		wishlist.POST("/items", h.AddItem)
		wishlist.GET("/items/:id", h.IsInWishlist)
		wishlist.DELETE("/items/:id", h.RemoveItem)
	}
}

type addToWishlistRequest struct {
	Slug     string  `json:"slug"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" binding:"gte=0"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	wishlist := usecase.WishlistFromContext(c.Request.Context())
	SuccessResponse(c, http.StatusOK, "Wishlist retrieved successfully", wishlist.State())
}

func (h *WishlistHandler) AddItem(c *gin.Context) {
	ctx := c.Request.Context()
	wishlist := usecase.WishlistFromContext(ctx)

	var req addToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for add to wishlist: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item := domain.WishlistItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	}
	if req.Slug != "" {
		product, err := h.catalog.GetProductBySlug(ctx, req.Slug)
		if err != nil {
			h.log.Warnf("Failed to look up '%s' for wishlist: %v", req.Slug, err)
			ErrorResponse(c, mapErrorToStatus(err), "Failed to add item: "+err.Error())
			return
		}
		item = domain.WishlistItem{
			ID:       product.Slug,
			Name:     product.Name,
			Price:    product.Price,
			Category: product.Category,
		}
		if len(product.Images) > 0 {
			item.Image = product.Images[0]
		}
	}
	if strings.TrimSpace(item.ID) == "" {
		ErrorResponse(c, http.StatusBadRequest, "Failed to add item: "+domain.ErrInvalidItem.Error())
		return
	}
	if !wishlist.IsInWishlist(item.ID) && wishlist.State().ItemCount >= domain.MaxWishlistItems {
		h.log.Warnf("Rejected wishlist add of '%s': limit %d reached", item.ID, domain.MaxWishlistItems)
		ErrorResponse(c, mapErrorToStatus(domain.ErrWishlistFull), "Failed to add item: "+domain.ErrWishlistFull.Error())
		return
	}

	state := wishlist.AddItem(ctx, item)
	SuccessResponse(c, http.StatusOK, "Item added to wishlist", state)
}

func (h *WishlistHandler) IsInWishlist(c *gin.Context) {
	id := c.Param("id")
	in := usecase.WishlistFromContext(c.Request.Context()).IsInWishlist(id)
	SuccessResponse(c, http.StatusOK, "Wishlist membership checked", gin.H{
		"id":         id,
		"inWishlist": in,
	})
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	ctx := c.Request.Context()
	state := usecase.WishlistFromContext(ctx).RemoveItem(ctx, c.Param("id"))
	SuccessResponse(c, http.StatusOK, "Item removed from wishlist", state)
}

func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	state := usecase.WishlistFromContext(ctx).Clear(ctx)
	SuccessResponse(c, http.StatusOK, "Wishlist cleared", state)
}
