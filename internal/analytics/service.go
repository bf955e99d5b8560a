package analytics

import (
	"context"
	"time"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/repository"
)

// Service loads orders and products and aggregates them on every call
type Service struct {
	orders            repository.OrderRepository
	products          repository.ProductRepository
	loc               *time.Location
	now               func() time.Time
	lowStockThreshold int
}

func NewService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	loc *time.Location,
	now func() time.Time,
	lowStockThreshold int,
) *Service {
	return &Service{
		orders:            orders,
		products:          products,
		loc:               loc,
		now:               now,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *Service) Summary(ctx context.Context, r domain.TimeRange) (Summary, error) {
	orders, products, err := s.load(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(orders, products, r, Options{
		Now:               s.now(),
		Location:          s.loc,
		LowStockThreshold: s.lowStockThreshold,
	}), nil
}

func (s *Service) Report(ctx context.Context) (Report, error) {
	orders, products, err := s.load(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(orders, products, s.now(), s.loc), nil
}

func (s *Service) load(ctx context.Context) ([]domain.Order, []domain.Product, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return orders, products, nil
}
