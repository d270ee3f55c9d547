package usecase

import (
	"context"
	"fmt"
	"sort"
	"storefront/internal/domain"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const defaultMaxPrice = 1000.0

type CatalogUseCase interface {
	Browse(ctx context.Context, params domain.FilterParams, locale language.Tag) ([]domain.Product, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	MaxPrice(ctx context.Context) (float64, error)
	DefaultParams(ctx context.Context) (domain.FilterParams, error)
}

type catalogUseCase struct {
	repo domain.ProductRepository
	log  *logrus.Logger
}

func NewCatalogUseCase(repo domain.ProductRepository, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{
		repo: repo,
		log:  logger,
	}
}

func (uc *catalogUseCase) Browse(ctx context.Context, params domain.FilterParams, locale language.Tag) ([]domain.Product, error) {
	if params.PriceRange[0] > params.PriceRange[1] {
		uc.log.Warnf("Use Case: Rejected price range [%v, %v]", params.PriceRange[0], params.PriceRange[1])
		return nil, fmt.Errorf("min %v above max %v: %w", params.PriceRange[0], params.PriceRange[1], domain.ErrInvalidPrice)
	}
	catalog, err := uc.repo.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	result := FilterProducts(catalog, params, locale)
	uc.log.Infof("Use Case: %d of %d products match (category=%q search=%q sort=%s)",
		len(result), len(catalog), params.ActiveCategory, params.SearchTerm, params.SortBy)
	return result, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("invalid product slug: %w", domain.ErrProductNotFound)
	}
	product, err := uc.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		uc.log.Warnf("Use Case: Product '%s' lookup failed: %v", slug, err)
		return nil, err
	}
	return product, nil
}

func (uc *catalogUseCase) Categories(ctx context.Context) ([]string, error) {
	catalog, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}
	return Categories(catalog), nil
}

func (uc *catalogUseCase) MaxPrice(ctx context.Context) (float64, error) {
	catalog, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not retrieve products: %w", err)
	}
	return MaxPrice(catalog), nil
}

// DefaultParams is the unfiltered view: every category, no search, sorted by name, and a
// price range spanning the whole catalog.
func (uc *catalogUseCase) DefaultParams(ctx context.Context) (domain.FilterParams, error) {
	maxPrice, err := uc.MaxPrice(ctx)
	if err != nil {
		return domain.FilterParams{}, err
	}
	if maxPrice <= 0 {
		maxPrice = defaultMaxPrice
	}
	return domain.FilterParams{
		ActiveCategory: domain.AllCategories,
		SortBy:         domain.SortByName,
		PriceRange:     [2]float64{0, maxPrice},
	}, nil
}

// FilterProducts applies category, free-text and price filters in that order, then a
// stable sort. The catalog slice is not modified.
func FilterProducts(catalog []domain.Product, params domain.FilterParams, locale language.Tag) []domain.Product {
	filtered := make([]domain.Product, 0, len(catalog))
	filtered = append(filtered, catalog...)

	if !strings.EqualFold(params.ActiveCategory, domain.AllCategories) {
		category := strings.ToLower(params.ActiveCategory)
		filtered = keep(filtered, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Category), category)
		})
	}

	if params.SearchTerm != "" {
		term := strings.ToLower(params.SearchTerm)
		filtered = keep(filtered, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), term) ||
				strings.Contains(strings.ToLower(p.Description), term) ||
				strings.Contains(strings.ToLower(p.Category), term)
		})
	}

	low, high := params.PriceRange[0], params.PriceRange[1]
	filtered = keep(filtered, func(p domain.Product) bool {
		return p.Price >= low && p.Price <= high
	})

	switch params.SortBy {
	case domain.SortByPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case domain.SortByPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case domain.SortByCategory:
		col := collate.New(locale)
		sort.SliceStable(filtered, func(i, j int) bool {
			return col.CompareString(filtered[i].Category, filtered[j].Category) < 0
		})
	default:
		col := collate.New(locale)
		sort.SliceStable(filtered, func(i, j int) bool {
			return col.CompareString(filtered[i].Name, filtered[j].Name) < 0
		})
	}
	return filtered
}

func keep(products []domain.Product, pred func(domain.Product) bool) []domain.Product {
	out := products[:0]
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns "all" followed by each distinct category in catalog order.
func Categories(catalog []domain.Product) []string {
	seen := make(map[string]struct{}, len(catalog))
	out := []string{domain.AllCategories}
	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func MaxPrice(catalog []domain.Product) float64 {
	highest := 0.0
	for _, p := range catalog {
		if p.Price > highest {
			highest = p.Price
		}
	}
	return highest
}
