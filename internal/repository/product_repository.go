package repository

import (
	"context"
	"errors"
	"sync"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this id already exists")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	// List returns every product, active or not. An empty catalog is seeded first.
	List(ctx context.Context) ([]domain.Product, error)
}

type productRepository struct {
	mu  sync.Mutex
	doc document[domain.Product]
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(kv storage.Store, keys storage.Keys) ProductRepository {
	return &productRepository{doc: document[domain.Product]{kv: kv, key: keys.Products(), name: "products"}}
}

// loadSeeded must be called with mu held
func (r *productRepository) loadSeeded(ctx context.Context) ([]domain.Product, error) {
	products, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	products = domain.SeedProducts()
	if err := r.doc.save(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.loadSeeded(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ID == product.ID {
			return ErrProductAlreadyExists
		}
	}

	return r.doc.save(ctx, append(products, product))
}

// Update replaces the stored product with the same id
func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.loadSeeded(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return r.doc.save(ctx, products)
		}
	}

	return ErrProductNotFound
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.loadSeeded(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == id {
			return r.doc.save(ctx, append(products[:i], products[i+1:]...))
		}
	}

	return ErrProductNotFound
}

func (r *productRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadSeeded(ctx)
}
