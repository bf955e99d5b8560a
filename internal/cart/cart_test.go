package cart

import (
	"context"
	"testing"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func product(id, price string, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: domain.CategoryGroceries,
		Stock:    stock,
		IsActive: true,
	}
}

var pool = []domain.Product{
	product("1", "1.50", 20),
	product("2", "2.50", 15),
	product("3", "3.00", 2),
	product("4", "0.99", 1),
	product("5", "35.00", 0),
}

// decodeAction turns a generated integer into an action over pool
func decodeAction(n int) Action {
	p := pool[(n/4)%len(pool)]
	switch n % 4 {
	case 0:
		return AddItem{Product: p}
	case 1:
		return UpdateQuantity{ProductID: p.ID, Quantity: (n/16)%8 - 1}
	case 2:
		return RemoveItem{ProductID: p.ID}
	default:
		if (n/16)%5 == 0 {
			return ClearCart{}
		}
		return AddItem{Product: p}
	}
}

func invariantsHold(t *testing.T, s State) bool {
	total := decimal.Zero
	count := 0
	seen := map[string]bool{}
	for _, item := range s.Items {
		if seen[item.Product.ID] {
			t.Logf("FAIL: duplicate product %s", item.Product.ID)
			return false
		}
		seen[item.Product.ID] = true
		if item.Quantity < 1 {
			t.Logf("FAIL: non-positive quantity %d for %s", item.Quantity, item.Product.ID)
			return false
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	if !s.Total.Equal(total) {
		t.Logf("FAIL: total %s, expected %s", s.Total, total)
		return false
	}
	if s.ItemCount != count {
		t.Logf("FAIL: item count %d, expected %d", s.ItemCount, count)
		return false
	}
	return true
}

// Totals and item count follow every mutation
func TestProperty_TotalsTrackEveryMutation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("itemCount and total match the items after each action", prop.ForAll(
		func(script []int) bool {
			state := Empty()
			for _, n := range script {
				state = Reduce(state, decodeAction(n))
				if !invariantsHold(t, state) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<20)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Adding never pushes a quantity past the product's stock
func TestProperty_AddIsBoundedByStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated adds stop at stock", prop.ForAll(
		func(stock int, adds int) bool {
			p := product("bounded", "1.00", stock)
			state := Empty()
			for i := 0; i < adds; i++ {
				state = Reduce(state, AddItem{Product: p})
			}

			expected := adds
			if expected > stock {
				expected = stock
			}
			return state.ItemCount == expected && len(state.Items) == min(1, expected)
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Reduce never mutates the state it was given
func TestProperty_ReduceDoesNotMutateInput(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("previous snapshot is unchanged after a reduction", prop.ForAll(
		func(setup []int, n int) bool {
			state := Empty()
			for _, s := range setup {
				state = Reduce(state, decodeAction(s))
			}

			before := make([]domain.CartItem, len(state.Items))
			copy(before, state.Items)
			total, count := state.Total, state.ItemCount

			Reduce(state, decodeAction(n))

			if len(before) != len(state.Items) || !total.Equal(state.Total) || count != state.ItemCount {
				return false
			}
			for i := range before {
				if before[i].Product.ID != state.Items[i].Product.ID || before[i].Quantity != state.Items[i].Quantity {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<20)),
		gen.IntRange(0, 1<<20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestReduce_ExampleTotals(t *testing.T) {
	state := Empty()
	state = Reduce(state, AddItem{Product: pool[0]})
	state = Reduce(state, AddItem{Product: pool[0]})
	state = Reduce(state, AddItem{Product: pool[1]})

	if !state.Total.Equal(decimal.RequireFromString("5.50")) {
		t.Errorf("expected total 5.50, got %s", state.Total)
	}
	if state.ItemCount != 3 {
		t.Errorf("expected item count 3, got %d", state.ItemCount)
	}
}

func TestReduce_AddSameProductIncrements(t *testing.T) {
	state := Reduce(Reduce(Empty(), AddItem{Product: pool[1]}), AddItem{Product: pool[1]})

	if len(state.Items) != 1 {
		t.Fatalf("expected a single entry, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", state.Items[0].Quantity)
	}
}

func TestReduce_OutOfStockIsNotAdded(t *testing.T) {
	state := Reduce(Empty(), AddItem{Product: pool[4]})
	if len(state.Items) != 0 {
		t.Fatalf("expected out-of-stock product to be skipped, got %+v", state.Items)
	}
}

func TestReduce_UpdateQuantity(t *testing.T) {
	state := Reduce(Empty(), AddItem{Product: pool[0]})

	state = Reduce(state, UpdateQuantity{ProductID: "1", Quantity: 4})
	if state.ItemCount != 4 || !state.Total.Equal(decimal.RequireFromString("6")) {
		t.Errorf("expected 4 items totalling 6.00, got %d / %s", state.ItemCount, state.Total)
	}

	// stock is 20; quantity is not clamped
	state = Reduce(state, UpdateQuantity{ProductID: "1", Quantity: 25})
	if state.ItemCount != 25 {
		t.Errorf("expected unclamped quantity 25, got %d", state.ItemCount)
	}

	state = Reduce(state, UpdateQuantity{ProductID: "1", Quantity: 0})
	if len(state.Items) != 0 || !state.Total.IsZero() {
		t.Errorf("expected quantity 0 to remove the item, got %+v", state)
	}
}

func TestReduce_UnknownProductIsNoOp(t *testing.T) {
	state := Reduce(Empty(), AddItem{Product: pool[0]})

	for _, action := range []Action{
		RemoveItem{ProductID: "missing"},
		UpdateQuantity{ProductID: "missing", Quantity: 3},
	} {
		next := Reduce(state, action)
		if len(next.Items) != 1 || next.ItemCount != 1 || !next.Total.Equal(state.Total) {
			t.Errorf("%T on unknown product changed the cart: %+v", action, next)
		}
	}
}

func TestReduce_ClearCart(t *testing.T) {
	state := Empty()
	for _, p := range pool[:4] {
		state = Reduce(state, AddItem{Product: p})
	}

	state = Reduce(state, ClearCart{})
	if len(state.Items) != 0 || state.ItemCount != 0 || !state.Total.IsZero() {
		t.Errorf("expected empty cart, got %+v", state)
	}
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	keys := storage.Keys{Namespace: "burns-farm"}
	store := NewStore(kv, keys, zap.NewNop())

	if _, err := store.AddItem(ctx, "c1", pool[0]); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := store.AddItem(ctx, "c1", pool[0]); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	saved, err := store.AddItem(ctx, "c1", pool[1])
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// a fresh store over the same backend sees the same cart
	reloaded, err := NewStore(kv, keys, zap.NewNop()).Load(ctx, "c1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if reloaded.ItemCount != saved.ItemCount || !reloaded.Total.Equal(saved.Total) {
		t.Errorf("reloaded cart differs: %+v vs %+v", reloaded, saved)
	}
	if len(reloaded.Items) != 2 || reloaded.Items[0].Quantity != 2 {
		t.Errorf("unexpected reloaded items: %+v", reloaded.Items)
	}

	other, err := store.Load(ctx, "c2")
	if err != nil || len(other.Items) != 0 {
		t.Errorf("expected carts to be isolated, got %+v (%v)", other, err)
	}

	cleared, err := store.Clear(ctx, "c1")
	if err != nil || cleared.ItemCount != 0 {
		t.Fatalf("clear failed: %+v %v", cleared, err)
	}
	var raw State
	found, _ := storage.GetJSON(ctx, kv, keys.Cart("c1"), &raw)
	if !found || len(raw.Items) != 0 {
		t.Errorf("expected the cleared snapshot to be stored, got %+v", raw)
	}
}
