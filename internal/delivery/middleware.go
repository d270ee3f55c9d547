package delivery

import (
	"net/http"
	"storefront/internal/usecase"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	SessionCookie   = "storefront_session"
	SessionHeader   = "X-Session-ID"
	RequestIDHeader = "X-Request-ID"

	ctxKeySessionID = "sessionID"
	ctxKeyLocale    = "locale"

	sessionCookieMaxAge = 60 * 60 * 24 * 30
)

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"remote_ip":  c.ClientIP(),
			"request_id": reqID,
		})
		entry.Debug("Request received")

		c.Next()

		entry = entry.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(startTime).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("Request completed with errors")
			return
		}
		entry.Info("Request completed")
	}
}

// Session resolves the caller's session id from the X-Session-ID header or the session
// cookie, issuing a fresh one when neither holds a valid UUID, and binds that session's
// cart and wishlist to the request context.
func Session(provider *usecase.SessionProvider, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			if sessionID != "" {
				logger.Warnf("Middleware: Discarding malformed session id %q", sessionID)
			}
			sessionID = uuid.NewString()
			logger.Debugf("Middleware: Issued new session %s", sessionID)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sessionID, sessionCookieMaxAge, "/", "", false, true)
		c.Header(SessionHeader, sessionID)
		c.Set(ctxKeySessionID, sessionID)
		c.Request = c.Request.WithContext(provider.Bind(c.Request.Context(), sessionID))
		c.Next()
	}
}

// Locale resolves the :locale route parameter, falling back to the default locale.
func Locale(fallback language.Tag, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("locale")
		tag, ok := usecase.ResolveLocale(raw, fallback)
		if !ok {
			logger.Warnf("Middleware: Invalid locale '%s', falling back to '%s'", raw, fallback)
		}
		c.Set(ctxKeyLocale, tag)
		c.Next()
	}
}

func localeOf(c *gin.Context) language.Tag {
	if v, ok := c.Get(ctxKeyLocale); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}
