package analytics

import (
	"sort"
	"strings"
	"time"

	"burns-farm-shop/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	reportDays   = 7
	recentOrders = 5
)

// DailyReport is one bar of the last-seven-days chart
type DailyReport struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductReport ranks a catalog product by units sold
type ProductReport struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Sold      int             `json:"sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CategoryReport is the revenue taken for one category
type CategoryReport struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Report is the all-time admin report
type Report struct {
	TotalOrders       int                        `json:"totalOrders"`
	TotalRevenue      decimal.Decimal            `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal            `json:"averageOrderValue"`
	OrdersByStatus    map[domain.OrderStatus]int `json:"ordersByStatus"`
	LastSevenDays     []DailyReport              `json:"lastSevenDays"`
	TopProducts       []ProductReport            `json:"topProducts"`
	CategoryRevenue   []CategoryReport           `json:"categoryRevenue"`
	RecentOrders      []domain.Order             `json:"recentOrders"`
}

// BuildReport computes the report over every order. Top products are ranked from the current
// catalog, so their revenue uses today's price rather than the price paid.
func BuildReport(orders []domain.Order, products []domain.Product, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}

	report := Report{
		TotalOrders:       len(orders),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		OrdersByStatus:    map[domain.OrderStatus]int{},
	}
	for _, o := range orders {
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)
		report.OrdersByStatus[o.Status]++
	}
	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.TotalOrders)))
	}

	report.LastSevenDays = lastDays(orders, now, loc)
	report.TopProducts = topSellers(orders, products)
	report.CategoryRevenue = categoryRevenue(orders)
	report.RecentOrders = newest(orders, recentOrders)

	return report
}

// lastDays returns the last seven calendar days, oldest first
func lastDays(orders []domain.Order, now time.Time, loc *time.Location) []DailyReport {
	days := make([]DailyReport, reportDays)
	today := now.In(loc)
	for i := 0; i < reportDays; i++ {
		day := today.AddDate(0, 0, -i)
		r := DailyReport{Date: day.Format("Jan 02"), Revenue: decimal.Zero}
		for _, o := range orders {
			if domain.SameDay(o.CreatedAt, day, loc) {
				r.Orders++
				r.Revenue = r.Revenue.Add(o.Total)
			}
		}
		days[reportDays-1-i] = r
	}
	return days
}

func topSellers(orders []domain.Order, products []domain.Product) []ProductReport {
	ranked := make([]ProductReport, 0, len(products))
	for _, p := range products {
		sold := 0
		for _, o := range orders {
			for _, item := range o.Items {
				if item.Product.ID == p.ID {
					sold += item.Quantity
					break
				}
			}
		}
		ranked = append(ranked, ProductReport{
			ProductID: p.ID,
			Name:      p.Name,
			Sold:      sold,
			Revenue:   p.Price.Mul(decimal.NewFromInt(int64(sold))),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Sold > ranked[j].Sold })
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	return ranked
}

func categoryRevenue(orders []domain.Order) []CategoryReport {
	out := make([]CategoryReport, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		revenue := decimal.Zero
		for _, o := range orders {
			for _, item := range o.Items {
				if item.Product.Category == c {
					revenue = revenue.Add(item.LineTotal())
				}
			}
		}
		name := string(c)
		out = append(out, CategoryReport{
			Category: strings.ToUpper(name[:1]) + name[1:],
			Revenue:  revenue,
		})
	}
	return out
}

func newest(orders []domain.Order, n int) []domain.Order {
	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
