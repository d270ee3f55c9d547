package delivery

import (
	"net/http"
	"storefront/internal/domain"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// NewRouter registers every storefront route under /:locale.
func NewRouter(catalog domain.ProductRepository, sessions *usecase.SessionProvider, defaultLocale language.Tag, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, "ok", gin.H{"sessions": sessions.Active()})
	})

	localized := router.Group("/:locale")
	localized.Use(Locale(defaultLocale, logger), Session(sessions, logger))

	NewShopHandler(usecase.NewCatalogUseCase(catalog, logger), logger).RegisterRoutes(localized)
	NewCartHandler(catalog, logger).RegisterRoutes(localized)
	NewWishlistHandler(catalog, logger).RegisterRoutes(localized)
	logger.Info("API Routes registered.")

	return router
}
