package service

import (
	"context"
	"errors"
	"strings"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrUnknownCategory    = errors.New("unknown product category")
)

// ProductFilter narrows the shopper listing. Zero values match everything.
type ProductFilter struct {
	Category domain.Category
	Search   string
}

// ProductInput is the admin product form. Nil optional fields take their defaults.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Category    domain.Category `json:"category" validate:"required"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Stock       *int            `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool           `json:"isActive"`
}

// CatalogService defines the interface for the product catalog
type CatalogService interface {
	// ListActive is the shopper view: active products only
	ListActive(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	// ListAll is the admin view, inactive products included
	ListAll(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	// GetActive returns a product a shopper can add to a cart
	GetActive(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, in ProductInput) (domain.Product, error)
	Update(ctx context.Context, id string, in ProductInput) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	products repository.ProductRepository
	ids      *IDGenerator
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository, ids *IDGenerator, logger *zap.Logger) CatalogService {
	return &catalogService{products: products, ids: ids, logger: logger}
}

func (s *catalogService) ListActive(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Search))
	visible := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		visible = append(visible, p)
	}
	return visible, nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) GetActive(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.IsActive {
		return domain.Product{}, ErrProductUnavailable
	}
	return p, nil
}

func (s *catalogService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := checkProductInput(in); err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:          s.ids.Next(ProductIDPrefix),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		IsActive:    true,
	}
	if product.Image == "" {
		product.Image = domain.DefaultProductImage
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// Update replaces the editable fields of a product. Nil Stock and IsActive keep their stored values.
func (s *catalogService) Update(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	if err := checkProductInput(in); err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.Category = in.Category
	if in.Image != "" {
		product.Image = in.Image
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID))
	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func checkProductInput(in ProductInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !in.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}
