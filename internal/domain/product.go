package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category groups products on the shop front
type Category string

const (
	CategoryGroceries  Category = "groceries"
	CategoryGifts      Category = "gifts"
	CategoryEssentials Category = "essentials"
)

// Categories lists every category in display order
var Categories = []Category{CategoryGroceries, CategoryGifts, CategoryEssentials}

func (c Category) Valid() bool {
	switch c {
	case CategoryGroceries, CategoryGifts, CategoryEssentials:
		return true
	}
	return false
}

func (c *Category) UnmarshalJSON(data []byte) error {
	s, err := unmarshalEnum(data, "category", func(s string) bool { return Category(s).Valid() })
	if err != nil {
		return err
	}
	*c = Category(s)
	return nil
}

// DefaultProductImage is used when a product is saved without an image
const DefaultProductImage = "https://picsum.photos/300/200?random=999"

// Product represents an item in the catalog
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
}

// unmarshalEnum decodes a JSON string and rejects values the enum does not define.
func unmarshalEnum(data []byte, kind string, valid func(string) bool) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("%s must be a string: %w", kind, err)
	}
	if !valid(s) {
		return "", &UnknownValueError{Kind: kind, Value: s}
	}
	return s, nil
}

// UnknownValueError reports an enum value that the domain does not define
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}
