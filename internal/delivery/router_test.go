package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type stubCatalog struct {
	products []domain.Product
}

func (s *stubCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubCatalog) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

var testCatalog = []domain.Product{
	{Slug: "satin-suit", Name: "Satin Suit", Category: "Nightwear", Price: 32, Sizes: []string{"S", "M"}, Images: []string{"satin.jpg"}},
	{Slug: "pashmina-shawl", Name: "Pashmina Shawl", Category: "Shawls", Price: 99, Images: []string{"shawl.jpg"}},
}

type envelope struct {
	Status  string          `json:"Status"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

type testServer struct {
	t         *testing.T
	router    *gin.Engine
	sessions  *usecase.SessionProvider
	sessionID string
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sessions := usecase.NewSessionProvider(repository.NewMemoryStorage(logger), time.Hour, logger)
	return &testServer{
		t:         t,
		router:    NewRouter(&stubCatalog{products: testCatalog}, sessions, language.English, logger),
		sessions:  sessions,
		sessionID: uuid.NewString(),
	}
}

func (s *testServer) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, s.sessionID)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Success", env.Status)
}

func TestSessionMiddleware_IssuesSessionWhenMissing(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/en/cart", nil)
	req.Header.Set(SessionHeader, "not-a-uuid")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	issued := w.Header().Get(SessionHeader)
	_, err := uuid.Parse(issued)
	assert.NoError(t, err)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, issued, cookies[0].Value)
}

func TestSessionMiddleware_CookieKeepsSession(t *testing.T) {
	s := newTestServer(t)
	id := uuid.NewString()

	add := httptest.NewRequest(http.MethodPost, "/en/cart/items", bytes.NewBufferString(`{"slug":"satin-suit"}`))
	add.Header.Set("Content-Type", "application/json")
	add.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	s.router.ServeHTTP(httptest.NewRecorder(), add)

	get := httptest.NewRequest(http.MethodGet, "/en/cart", nil)
	get.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, get)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var view cartView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 1, view.ItemCount)
}

func TestHandlers_PanicWithoutSessionBecomes500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.Use(gin.RecoveryWithWriter(io.Discard))
	router.GET("/cart", NewCartHandler(&stubCatalog{}, logger).GetCart)
	router.GET("/wishlist", NewWishlistHandler(&stubCatalog{}, logger).GetWishlist)

	for _, path := range []string{"/cart", "/wishlist"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
	}
}

func TestMapErrorToStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, mapErrorToStatus(domain.ErrProductNotFound))
	assert.Equal(t, http.StatusNotFound, mapErrorToStatus(domain.ErrItemNotFound))
	assert.Equal(t, http.StatusConflict, mapErrorToStatus(domain.ErrWishlistFull))
	assert.Equal(t, http.StatusBadRequest, mapErrorToStatus(domain.ErrInvalidPrice))
	assert.Equal(t, http.StatusBadRequest, mapErrorToStatus(fmt.Errorf("invalid size %q", "XL")))
	assert.Equal(t, http.StatusInternalServerError, mapErrorToStatus(assert.AnError))
}
