package domain

import "github.com/shopspring/decimal"

type seedRow struct {
	id, name, description, price string
	category                     Category
	photo                        string
	stock                        int
}

var seedRows = []seedRow{
	{"1", "Fresh Milk (1L)", "Fresh whole milk from local dairy", "1.50", CategoryGroceries, "1563636619-e9143da7973b", 20},
	{"2", "Free Range Eggs (6 pack)", "Fresh free-range eggs from local farm", "2.50", CategoryGroceries, "1518569656558-1f25e69d93d3", 15},
	{"3", "Artisan Bread", "Freshly baked sourdough bread", "3.00", CategoryGroceries, "1509440159596-0249088772ff", 8},
	{"4", "Local Honey (250g)", "Pure local honey from Lake District bees", "4.50", CategoryGroceries, "1587049352846-4a222e784d38", 12},
	{"5", "Organic Vegetables Box", "Seasonal organic vegetables from local farms", "8.00", CategoryGroceries, "1540420773420-3366772f4999", 5},
	{"6", "Lake District Mug", "Ceramic mug with Lake District landscape", "12.00", CategoryGifts, "1514228742587-6b1558fcf93a", 25},
	{"7", "Handmade Soap Set", "Luxury handmade soaps with local herbs", "15.00", CategoryGifts, "1556228720-195a672e8a03", 10},
	{"8", "Cumbrian Whisky", "Premium local whisky from Cumbria", "35.00", CategoryGifts, "1513475382585-d06e58bcb0e0", 8},
	{"9", "Lake District Guide Book", "Comprehensive guide to walking trails and attractions", "18.00", CategoryGifts, "1481627834876-b7833e8f5570", 15},
	{"10", "Toilet Paper (4 pack)", "Soft toilet paper, 4 rolls", "3.50", CategoryEssentials, "1584464491033-06628f3a6b7b", 30},
	{"11", "Shower Gel", "Refreshing shower gel, 250ml", "4.00", CategoryEssentials, "1556228720-195a672e8a03", 20},
	{"12", "First Aid Kit", "Basic first aid supplies for camping", "12.50", CategoryEssentials, "1559757148-5c350d0d3c56", 8},
}

// SeedProducts returns a fresh copy of the starter catalog
func SeedProducts() []Product {
	products := make([]Product, 0, len(seedRows))
	for _, r := range seedRows {
		products = append(products, Product{
			ID:          r.id,
			Name:        r.name,
			Description: r.description,
			Price:       decimal.RequireFromString(r.price),
			Category:    r.category,
			Image:       "https://images.unsplash.com/photo-" + r.photo + "?w=300&h=200&fit=crop&crop=center",
			Stock:       r.stock,
			IsActive:    true,
		})
	}
	return products
}
