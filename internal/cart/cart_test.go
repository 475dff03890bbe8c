package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raynott/storefront/internal/models"
)

func product(id string, price float64) models.Product {
	return models.Product{ID: id, Name: "product " + id, Price: price, CountInStock: 5}
}

func TestCart_Add_MergesByProductID(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	p := product("a", 100)

	c.Add(p, 1)
	c.Add(p, 2)
	c.Add(p, 3)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Product.ID)
	assert.Equal(t, 6, items[0].Quantity)
}

func TestCart_Add_QtyBelowOneCountsAsOne(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(product("a", 100), 0)
	c.Add(product("b", 100), -5)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCart_Remove(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(product("a", 100), 1)
	c.Add(product("b", 200), 1)

	c.Remove("a")
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Product.ID)

	// absent ID is a no-op
	c.Remove("missing")
	assert.Len(t, c.Items(), 1)
}

func TestCart_UpdateQty_ClampsToOne(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		qty  int
		want int
	}{
		{name: "positive", qty: 7, want: 7},
		{name: "zero", qty: 0, want: 1},
		{name: "negative", qty: -3, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &Cart{}
			c.Add(product("a", 100), 5)
			c.UpdateQty("a", tt.qty)

			items := c.Items()
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Quantity)
		})
	}
}

func TestCart_UpdateQty_UnknownID_NoOp(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(product("a", 100), 2)
	c.UpdateQty("missing", 9)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_Totals_ShippingBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		price        float64
		qty          int
		wantItems    float64
		wantShipping float64
	}{
		{name: "empty cart ships free", price: 0, qty: 0, wantItems: 0, wantShipping: 0},
		{name: "below threshold pays fee", price: 50, qty: 1, wantItems: 50, wantShipping: 99},
		{name: "at threshold still pays fee", price: 1000, qty: 3, wantItems: 3000, wantShipping: 99},
		{name: "above threshold ships free", price: 1001, qty: 3, wantItems: 3003, wantShipping: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &Cart{}
			if tt.qty > 0 {
				c.Add(product("a", tt.price), tt.qty)
			}

			totals := c.Totals()
			assert.Equal(t, tt.wantItems, totals.ItemsPrice)
			assert.Equal(t, tt.wantShipping, totals.ShippingPrice)
			assert.Equal(t, totals.ItemsPrice+totals.ShippingPrice, totals.TotalPrice)
		})
	}
}

func TestCart_Totals_BoundaryScenario(t *testing.T) {
	t.Parallel()

	// add A (price 1000) qty 1, then qty 2: one merged line item at qty 3,
	// exactly at the threshold, which still pays the flat fee
	c := &Cart{}
	a := product("a", 1000)
	c.Add(a, 1)
	c.Add(a, 2)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	totals := c.Totals()
	assert.Equal(t, float64(3000), totals.ItemsPrice)
	assert.Equal(t, float64(99), totals.ShippingPrice)
	assert.Equal(t, float64(3099), totals.TotalPrice)
}

func TestCart_Totals_SmallOrderPaysFee(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(product("b", 50), 1)

	totals := c.Totals()
	assert.Equal(t, float64(50), totals.ItemsPrice)
	assert.Equal(t, float64(99), totals.ShippingPrice)
	assert.Equal(t, float64(149), totals.TotalPrice)
}

func TestCart_Clear_ZeroesTotals(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(product("a", 500), 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, models.CartTotals{}, c.Totals())
}

func TestCart_TotalsNeverDrift(t *testing.T) {
	t.Parallel()

	c := &Cart{}
	c.Add(product("a", 123.45), 2)
	c.Add(product("b", 10), 1)
	c.UpdateQty("a", 4)
	c.Remove("b")

	items := c.Items()
	var want float64
	for _, it := range items {
		want += it.Product.Price * float64(it.Quantity)
	}

	totals := c.Totals()
	assert.Equal(t, want, totals.ItemsPrice)
	assert.Equal(t, totals.ItemsPrice+totals.ShippingPrice, totals.TotalPrice)
}

func TestStore_OneCartPerSession(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a := s.Get("session-a")
	b := s.Get("session-b")

	a.Add(product("x", 10), 1)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())

	assert.Same(t, a, s.Get("session-a"))

	s.Drop("session-a")
	assert.Equal(t, 0, s.Get("session-a").Len())
}
