// Package cart holds the shopping cart state and the single reducer that mutates it.
package cart

import (
	"burns-farm-shop/internal/domain"

	"github.com/shopspring/decimal"
)

// State is the serializable cart snapshot. Total and ItemCount are derived from Items.
type State struct {
	Items     []domain.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"itemCount"`
}

// Empty returns a cart with no items and zero totals
func Empty() State {
	return State{Items: []domain.CartItem{}, Total: decimal.Zero}
}

// Action is one of AddItem, UpdateQuantity, RemoveItem or ClearCart
type Action interface {
	isAction()
}

type AddItem struct {
	Product domain.Product
}

type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type RemoveItem struct {
	ProductID string
}

type ClearCart struct{}

func (AddItem) isAction()        {}
func (UpdateQuantity) isAction() {}
func (RemoveItem) isAction()     {}
func (ClearCart) isAction()      {}

// Reduce applies action to state and returns the new state with recomputed totals.
// state is never modified.
func Reduce(state State, action Action) State {
	items := domain.CopyItems(state.Items)

	switch a := action.(type) {
	case AddItem:
		if i := indexOf(items, a.Product.ID); i >= 0 {
			// bounded by the stock of the product being added
			if items[i].Quantity < a.Product.Stock {
				items[i].Quantity++
			}
		} else if a.Product.Stock > 0 {
			items = append(items, domain.CartItem{Product: a.Product, Quantity: 1})
		}

	case UpdateQuantity:
		i := indexOf(items, a.ProductID)
		if i < 0 {
			break
		}
		if a.Quantity <= 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			// not clamped to stock
			items[i].Quantity = a.Quantity
		}

	case RemoveItem:
		if i := indexOf(items, a.ProductID); i >= 0 {
			items = append(items[:i], items[i+1:]...)
		}

	case ClearCart:
		items = []domain.CartItem{}
	}

	return withTotals(items)
}

// Recompute rebuilds Total and ItemCount from Items
func Recompute(state State) State {
	return withTotals(domain.CopyItems(state.Items))
}

func withTotals(items []domain.CartItem) State {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.LineTotal())
		count += item.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count}
}

func indexOf(items []domain.CartItem, productID string) int {
	for i, item := range items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
