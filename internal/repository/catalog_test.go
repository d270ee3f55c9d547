package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"storefront/internal/domain"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
  {"slug":"satin-suit","name":"Satin Suit","category":"Nightwear","price":32,"sizes":["S","M"],"description":"Soft","images":["satin.jpg"]},
  {"slug":"pashmina-shawl","name":"Pashmina Shawl","category":"Shawls","price":99,"sizes":[],"description":"Warm","images":["shawl.jpg"]}
]`

func TestFileCatalogRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0644))
	repo := NewFileCatalogRepository(path, quietLogger())

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"S", "M"}, products[0].Sizes)

	p, err := repo.GetProductBySlug(ctx, "pashmina-shawl")
	require.NoError(t, err)
	assert.Equal(t, "Shawls", p.Category)

	_, err = repo.GetProductBySlug(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = NewFileCatalogRepository(filepath.Join(t.TempDir(), "missing.json"), quietLogger()).ListProducts(ctx)
	assert.Error(t, err)
}

func TestPostgresCatalogRepository(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	columns := []string{"slug", "name", "category", "price", "sizes", "description", "images"}
	mock.ExpectQuery("SELECT slug, name, category, price, sizes, description, images FROM products ORDER BY slug").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("pashmina-shawl", "Pashmina Shawl", "Shawls", 99.0, "{}", "Warm", "{shawl.jpg}").
			AddRow("satin-suit", "Satin Suit", "Nightwear", 32.0, "{S,M}", "Soft", "{satin.jpg,satin-2.jpg}"))
	mock.ExpectQuery("FROM products WHERE slug").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	repo := NewPostgresCatalogRepository(db, quietLogger())
	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"S", "M"}, products[1].Sizes)
	assert.Equal(t, []string{"satin.jpg", "satin-2.jpg"}, products[1].Images)
	assert.Empty(t, products[0].Sizes)

	_, err = repo.GetProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type countingCatalog struct {
	calls    int32
	products []domain.Product
	err      error
	gate     chan struct{}
}

func (c *countingCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.gate != nil {
		<-c.gate
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.products, nil
}

func (c *countingCatalog) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(products, slug)
}

func TestCachedCatalog_ServesFromCacheUntilExpiry(t *testing.T) {
	ctx := context.Background()
	source := &countingCatalog{products: []domain.Product{{Slug: "satin-suit"}}}
	cache := NewCachedCatalog(source, time.Minute, quietLogger()).(*cachedCatalog)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := cache.ListProducts(ctx)
		require.NoError(t, err)
	}
	p, err := cache.GetProductBySlug(ctx, "satin-suit")
	require.NoError(t, err)
	assert.Equal(t, "satin-suit", p.Slug)
	assert.EqualValues(t, 1, atomic.LoadInt32(&source.calls))

	now = now.Add(2 * time.Minute)
	_, err = cache.ListProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&source.calls))
}

func TestCachedCatalog_StaleOnReloadFailure(t *testing.T) {
	ctx := context.Background()
	source := &countingCatalog{products: []domain.Product{{Slug: "satin-suit"}}}
	cache := NewCachedCatalog(source, time.Minute, quietLogger()).(*cachedCatalog)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, err := cache.ListProducts(ctx)
	require.NoError(t, err)

	source.err = errors.New("db gone")
	now = now.Add(2 * time.Minute)
	products, err := cache.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestCachedCatalog_ErrorWithoutCopy(t *testing.T) {
	source := &countingCatalog{err: errors.New("db gone")}
	cache := NewCachedCatalog(source, time.Minute, quietLogger())

	_, err := cache.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestCachedCatalog_CollapsesConcurrentLoads(t *testing.T) {
	source := &countingCatalog{products: []domain.Product{{Slug: "a"}}, gate: make(chan struct{})}
	cache := NewCachedCatalog(source, time.Minute, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := cache.ListProducts(context.Background())
			assert.NoError(t, err)
			assert.Len(t, products, 1)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&source.calls))
}
