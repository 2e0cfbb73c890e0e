package domain

import (
	"testing"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	c := NewCart()
	p := Product{ID: "p1", Name: "Lipstick", Price: d("100"), Stock: true}

	require.NoError(t, c.AddItem(p, 1))
	require.NoError(t, c.AddItem(p, 2))

	item, ok := c.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_AddItemErrors(t *testing.T) {
	c := NewCart()

	assert.ErrorIs(t, c.AddItem(Product{Price: d("1")}, 1), e.ErrProductIDRequired)
	assert.ErrorIs(t, c.AddItem(Product{ID: "p1", Price: d("1")}, 0), e.ErrQuantityMustBePositive)
	assert.True(t, c.IsEmpty())
}

func TestCart_AddThenRemoveRestoresTotal(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(Product{ID: "p1", Price: d("19.99")}, 2))
	before := c.Total()

	require.NoError(t, c.AddItem(Product{ID: "p2", Price: d("5.50")}, 3))
	c.RemoveItem("p2")

	assert.True(t, before.Equal(c.Total()))
	assert.Equal(t, "39.98", c.Total().StringFixed(2))
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(Product{ID: "p1", Price: d("10")}, 1))

	assert.True(t, c.UpdateQuantity("p1", 4))
	item, _ := c.Item("p1")
	assert.Equal(t, 4, item.Quantity)

	assert.False(t, c.UpdateQuantity("missing", 2))

	assert.True(t, c.UpdateQuantity("p1", 0))
	_, ok := c.Item("p1")
	assert.False(t, ok)
	assert.True(t, c.IsEmpty())
}

func TestCart_Subtract(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(Product{ID: "p1", Price: d("10")}, 3))
	require.NoError(t, c.AddItem(Product{ID: "p2", Price: d("5")}, 1))

	c.Subtract("p1", 2)
	item, ok := c.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)

	c.Subtract("p2", 5)
	_, ok = c.Item("p2")
	assert.False(t, ok)

	c.Subtract("missing", 1)
	c.Subtract("p1", 0)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "10.00", c.Total().StringFixed(2))
}

func TestCart_RemoveMissingIsNoop(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(Product{ID: "p1", Price: d("10")}, 1))

	c.RemoveItem("missing")

	assert.Equal(t, 1, c.Len())
}

func TestCart_ItemsKeepInsertionOrder(t *testing.T) {
	c := NewCart()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, c.AddItem(Product{ID: id, Price: d("1")}, 1))
	}
	c.RemoveItem("a")

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ProductID)
	assert.Equal(t, "b", items[1].ProductID)
}

func TestCart_Clear(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(Product{ID: "p1", Price: d("10")}, 1))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestNewCartFromItems(t *testing.T) {
	c := NewCartFromItems([]CartItem{
		{ProductID: "p1", Price: d("10"), Quantity: 1},
		{ProductID: "p2", Price: d("5"), Quantity: 0},
		{ProductID: "", Price: d("5"), Quantity: 1},
		{ProductID: "p1", Price: d("10"), Quantity: 2},
	})

	require.Equal(t, 1, c.Len())
	item, _ := c.Item("p1")
	assert.Equal(t, 3, item.Quantity)
}

func TestPricing_Totals(t *testing.T) {
	p := DefaultPricing()

	tests := []struct {
		name     string
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{"empty cart", "0", "0.00", "0.00", "0.00"},
		{"below threshold", "50", "9.00", "8.99", "67.99"},
		{"exactly threshold pays shipping", "75", "13.50", "8.99", "97.49"},
		{"above threshold", "200", "36.00", "0.00", "236.00"},
		{"tax rounded to cents", "10.05", "1.81", "8.99", "20.85"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Totals(d(tt.subtotal))
			assert.Equal(t, tt.tax, got.Tax.StringFixed(2))
			assert.Equal(t, tt.shipping, got.Shipping.StringFixed(2))
			assert.Equal(t, tt.total, got.Total.StringFixed(2))
		})
	}
}

func TestPricing_CartTotals(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(Product{ID: "p1", Price: d("100")}, 2))

	got := DefaultPricing().CartTotals(c)

	assert.Equal(t, "200.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "36.00", got.Tax.StringFixed(2))
	assert.Equal(t, "236.00", got.Total.StringFixed(2))
	assert.Equal(t, 2, got.ItemCount)
}
