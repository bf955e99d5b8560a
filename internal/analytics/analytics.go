// Package analytics computes the admin dashboard figures by scanning every stored order.
package analytics

import (
	"sort"
	"time"

	"burns-farm-shop/internal/domain"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

// ProductSales is one product's contribution over a set of orders
type ProductSales struct {
	Product  domain.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DayRevenue is the revenue of orders created on one calendar day
type DayRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the analytics view for a time range
type Summary struct {
	Range             domain.TimeRange           `json:"range"`
	TotalRevenue      decimal.Decimal            `json:"totalRevenue"`
	TotalOrders       int                        `json:"totalOrders"`
	AverageOrderValue decimal.Decimal            `json:"averageOrderValue"`
	TopProducts       []ProductSales             `json:"topProducts"`
	OrdersByStatus    map[domain.OrderStatus]int `json:"ordersByStatus"`
	RevenueByDay      []DayRevenue               `json:"revenueByDay"`
	LowStockProducts  []domain.Product           `json:"lowStockProducts"`
}

// Options control how orders are bucketed
type Options struct {
	Now               time.Time
	Location          *time.Location
	LowStockThreshold int
}

// Summarize computes the analytics for the orders created within r
func Summarize(orders []domain.Order, products []domain.Product, r domain.TimeRange, opts Options) Summary {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	summary := Summary{
		Range:             r,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopProducts:       []ProductSales{},
		OrdersByStatus:    map[domain.OrderStatus]int{},
		RevenueByDay:      []DayRevenue{},
		LowStockProducts:  LowStock(products, opts.LowStockThreshold),
	}

	sales := map[string]*ProductSales{}
	var firstSeen []string
	byDay := map[string]decimal.Decimal{}

	for _, o := range orders {
		if !r.Contains(o.CreatedAt, opts.Now, loc) {
			continue
		}

		summary.TotalOrders++
		summary.TotalRevenue = summary.TotalRevenue.Add(o.Total)
		summary.OrdersByStatus[o.Status]++

		day := o.CreatedAt.In(loc).Format("2006-01-02")
		byDay[day] = byDay[day].Add(o.Total)

		for _, item := range o.Items {
			s, ok := sales[item.Product.ID]
			if !ok {
				s = &ProductSales{Product: item.Product, Revenue: decimal.Zero}
				sales[item.Product.ID] = s
				firstSeen = append(firstSeen, item.Product.ID)
			}
			s.Quantity += item.Quantity
			s.Revenue = s.Revenue.Add(item.LineTotal())
		}
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.TotalOrders)))
	}

	for _, id := range firstSeen {
		summary.TopProducts = append(summary.TopProducts, *sales[id])
	}
	sort.SliceStable(summary.TopProducts, func(i, j int) bool {
		return summary.TopProducts[i].Revenue.GreaterThan(summary.TopProducts[j].Revenue)
	})
	if len(summary.TopProducts) > topProductsLimit {
		summary.TopProducts = summary.TopProducts[:topProductsLimit]
	}

	for day, revenue := range byDay {
		summary.RevenueByDay = append(summary.RevenueByDay, DayRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(summary.RevenueByDay, func(i, j int) bool {
		return summary.RevenueByDay[i].Date < summary.RevenueByDay[j].Date
	})

	return summary
}

// LowStock returns products that are running out but not yet sold out
func LowStock(products []domain.Product, threshold int) []domain.Product {
	low := []domain.Product{}
	for _, p := range products {
		if p.Stock > 0 && p.Stock <= threshold {
			low = append(low, p)
		}
	}
	return low
}
