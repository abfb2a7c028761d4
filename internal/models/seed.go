package models

import (
	"github.com/quickkart/quickkart/internal/currency"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name     string
	priceUSD float64
	image    string
	sort     int
}

// The source price list is quoted in USD; stored prices are whole INR.
var defaultCatalog = []seedProduct{
	{"Wireless Bluetooth Earbuds", 19.99, "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800", 1},
	{"Smart Fitness Band", 29.99, "https://images.unsplash.com/photo-1575311373937-040b8e1fd5b6?w=800", 2},
	{"Portable Power Bank 20000mAh", 24.50, "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800", 3},
	{"Mechanical Keyboard", 59.00, "https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?w=800", 4},
	{"USB-C Fast Charger", 12.99, "https://images.unsplash.com/photo-1583863788434-e58a36330cf0?w=800", 5},
	{"Noise Cancelling Headphones", 89.99, "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800", 6},
	{"Laptop Sleeve 15 inch", 15.75, "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=800", 7},
	{"Stainless Steel Water Bottle", 9.99, "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=800", 8},
}

// SeedDefaultCatalog inserts the default products, skipping names that
// already exist. Safe to call on every startup.
func SeedDefaultCatalog() (int, error) {
	created := 0
	for _, entry := range defaultCatalog {
		var count int64
		if err := DB.Model(&Product{}).Where("name = ?", entry.name).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		priceINR := currency.ConvertUSDToINR(decimal.NewFromFloat(entry.priceUSD))
		product := Product{
			Name:      entry.name,
			Price:     NewMoneyFromDecimal(priceINR),
			Image:     entry.image,
			IsActive:  true,
			SortOrder: entry.sort,
		}
		if err := DB.Create(&product).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
