package delivery

import (
	"net/http"
	"storefront/internal/domain"
	"storefront/internal/usecase"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ShopHandler struct {
	useCase usecase.CatalogUseCase
	log     *logrus.Logger
}

func NewShopHandler(uc usecase.CatalogUseCase, logger *logrus.Logger) *ShopHandler {
	return &ShopHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ShopHandler) RegisterRoutes(router gin.IRouter) {
	shop := router.Group("/shop")
	{
		shop.GET("", h.Browse)
		shop.GET("/categories", h.ListCategories)
	}
}

type shopListing struct {
	Products []domain.Product    `json:"products"`
	Count    int                 `json:"count"`
	Filters  domain.FilterParams `json:"filters"`
}

// Browse serves the filtered listing, or a single product when ?product=<slug> is set.
func (h *ShopHandler) Browse(c *gin.Context) {
	ctx := c.Request.Context()

	if slug := c.Query("product"); slug != "" {
		product, err := h.useCase.GetProduct(ctx, slug)
		if err != nil {
			h.log.Warnf("Failed to get product '%s': %v", slug, err)
			ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve product: "+err.Error())
			return
		}
		SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
		return
	}

	params, err := h.useCase.DefaultParams(ctx)
	if err != nil {
		h.log.Errorf("Failed to compute default filters: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}
	if category := c.Query("category"); category != "" {
		params.ActiveCategory = category
	}
	params.SearchTerm = c.Query("search")
	if sortBy := c.Query("sort"); sortBy != "" {
		params.SortBy = domain.SortKey(sortBy)
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.log.Warnf("Invalid min_price parameter: %s", raw)
			ErrorResponse(c, http.StatusBadRequest, "Invalid min_price format")
			return
		}
		params.PriceRange[0] = v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.log.Warnf("Invalid max_price parameter: %s", raw)
			ErrorResponse(c, http.StatusBadRequest, "Invalid max_price format")
			return
		}
		params.PriceRange[1] = v
	}

	products, err := h.useCase.Browse(ctx, params, localeOf(c))
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to browse products: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve products: "+err.Error())
		return
	}

	listing := shopListing{Products: products, Count: len(products), Filters: params}
	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching your criteria", listing)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", listing)
}

func (h *ShopHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()
	categories, err := h.useCase.Categories(ctx)
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve categories: "+err.Error())
		return
	}
	maxPrice, err := h.useCase.MaxPrice(ctx)
	if err != nil {
		h.log.Errorf("Failed to compute max price: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve categories: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", gin.H{
		"categories": categories,
		"maxPrice":   maxPrice,
	})
}
