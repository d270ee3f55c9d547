package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storefront/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresCatalogRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCatalogRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresCatalogRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT slug, name, category, price, sizes, description, images
        FROM products
        ORDER BY slug ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.Slug, &p.Name, &p.Category, &p.Price, pq.Array(&p.Sizes), &p.Description, pq.Array(&p.Images)); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	r.log.Infof("Repository: Retrieved %d products", len(products))
	return products, nil
}

func (r *postgresCatalogRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `
        SELECT slug, name, category, price, sizes, description, images
        FROM products
        WHERE slug = $1`
	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&p.Slug,
		&p.Name,
		&p.Category,
		&p.Price,
		pq.Array(&p.Sizes),
		&p.Description,
		pq.Array(&p.Images),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with slug %s not found", slug)
			return nil, fmt.Errorf("product with slug %q: %w", slug, domain.ErrProductNotFound)
		}
		r.log.Errorf("Repository: Failed to get product by slug %s: %v", slug, err)
		return nil, fmt.Errorf("could not get product by slug: %w", err)
	}
	return &p, nil
}
