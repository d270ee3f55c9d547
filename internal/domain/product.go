package domain

import "context"

type Product struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Sizes       []string `json:"sizes"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceLow  SortKey = "price-low"
	SortByPriceHigh SortKey = "price-high"
	SortByCategory  SortKey = "category"
)

// AllCategories is the category sentinel that disables the category filter.
const AllCategories = "all"

type FilterParams struct {
	ActiveCategory string     `json:"activeCategory"`
	SearchTerm     string     `json:"searchTerm"`
	SortBy         SortKey    `json:"sortBy"`
	PriceRange     [2]float64 `json:"priceRange"`
}

// ProductRepository is the read-only catalog source.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
}
