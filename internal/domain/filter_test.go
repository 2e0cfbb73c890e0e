package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func sampleProducts() []Product {
	return []Product{
		{ID: "1", Name: "Lipstick", Category: "A", Brand: "X", Price: d("10"), Rating: 4, Stock: true},
		{ID: "2", Name: "Serum", Category: "B", Brand: "Y", Price: d("50"), Rating: 3, Stock: false},
		{ID: "3", Name: "Ring", Category: "C", Brand: "X", Price: d("150"), Rating: 5, Stock: true},
		{ID: "4", Name: "Perfume", Category: "A", Brand: "Z", Price: d("250"), Rating: 4.5, Stock: true},
	}
}

func ids(products []Product) []string {
	result := make([]string, 0, len(products))
	for _, p := range products {
		result = append(result, p.ID)
	}
	return result
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filters FilterState
		want    []string
	}{
		{
			name:    "empty filter state returns input",
			filters: FilterState{},
			want:    []string{"1", "2", "3", "4"},
		},
		{
			name:    "category A within default price range",
			filters: FilterState{Categories: []string{"A"}, PriceRange: PriceRange{Min: d("0"), Max: dp("200")}},
			want:    []string{"1"},
		},
		{
			name:    "categories combine with OR",
			filters: FilterState{Categories: []string{"A", "C"}},
			want:    []string{"1", "3", "4"},
		},
		{
			name:    "brand and category combine with AND",
			filters: FilterState{Categories: []string{"A"}, Brands: []string{"X"}},
			want:    []string{"1"},
		},
		{
			name:    "price bounds are inclusive",
			filters: FilterState{PriceRange: PriceRange{Min: d("10"), Max: dp("150")}},
			want:    []string{"1", "2", "3"},
		},
		{
			name:    "missing max is unbounded",
			filters: FilterState{PriceRange: PriceRange{Min: d("100")}},
			want:    []string{"3", "4"},
		},
		{
			name:    "explicit zero max excludes priced products",
			filters: FilterState{PriceRange: PriceRange{Max: dp("0")}},
			want:    []string{},
		},
		{
			name:    "rating threshold",
			filters: FilterState{MinRating: 4.5},
			want:    []string{"3", "4"},
		},
		{
			name:    "in stock only",
			filters: FilterState{InStockOnly: true},
			want:    []string{"1", "3", "4"},
		},
		{
			name:    "nothing matches",
			filters: FilterState{Brands: []string{"Unknown"}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleProducts(), tt.filters)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, DefaultFilterState("A", "", nil))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_Idempotent(t *testing.T) {
	f := FilterState{Categories: []string{"A", "C"}, MinRating: 4, PriceRange: PriceRange{Max: dp("200")}}

	once := Apply(sampleProducts(), f)
	twice := Apply(once, f)

	assert.Equal(t, ids(once), ids(twice))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	_ = Apply(products, FilterState{InStockOnly: true})

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(products))
}

func TestDefaultFilterState(t *testing.T) {
	maxPrice := d("99")
	f := DefaultFilterState("Rings", "ColorPro", &maxPrice)

	assert.Equal(t, []string{"Rings"}, f.Categories)
	assert.Equal(t, []string{"ColorPro"}, f.Brands)
	assert.Equal(t, "0", f.PriceRange.Min.String())
	require.NotNil(t, f.PriceRange.Max)
	assert.Equal(t, "99", f.PriceRange.Max.String())

	f = DefaultFilterState("", "", nil)
	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Brands)
	require.NotNil(t, f.PriceRange.Max)
	assert.True(t, f.PriceRange.Max.Equal(DefaultMaxPrice))
}

func TestFilterState_ActiveCount(t *testing.T) {
	tests := []struct {
		name    string
		filters FilterState
		want    int
	}{
		{"defaults", DefaultFilterState("", "", nil), 0},
		{"unbounded max", FilterState{}, 0},
		{"categories and brands", FilterState{Categories: []string{"A", "B"}, Brands: []string{"X"}}, 3},
		{"rating and stock", FilterState{MinRating: 3, InStockOnly: true}, 2},
		{"raised min price", FilterState{PriceRange: PriceRange{Min: d("5"), Max: &DefaultMaxPrice}}, 1},
		{"lowered max price", FilterState{PriceRange: PriceRange{Max: dp("150")}}, 1},
		{"zero max price", FilterState{PriceRange: PriceRange{Max: dp("0")}}, 1},
		{"max above default", FilterState{PriceRange: PriceRange{Max: dp("500")}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.ActiveCount())
		})
	}
}

func TestFilterState_Toggle(t *testing.T) {
	f := DefaultFilterState("", "", nil)

	f = f.ToggleCategory("Rings").ToggleCategory("Perfumes")
	assert.Equal(t, []string{"Rings", "Perfumes"}, f.Categories)

	f = f.ToggleCategory("Rings")
	assert.Equal(t, []string{"Perfumes"}, f.Categories)

	f = f.ToggleBrand("SkinLux")
	assert.Equal(t, []string{"SkinLux"}, f.Brands)

	f = f.ToggleBrand("SkinLux")
	assert.Empty(t, f.Brands)
}

func TestFilterState_ToggleDoesNotShareBacking(t *testing.T) {
	base := FilterState{Categories: []string{"A", "B"}}
	toggled := base.ToggleCategory("A")

	assert.Equal(t, []string{"A", "B"}, base.Categories)
	assert.Equal(t, []string{"B"}, toggled.Categories)
}

func TestFilterState_Cleared(t *testing.T) {
	f := FilterState{Categories: []string{"A"}, Brands: []string{"X"}, MinRating: 4, InStockOnly: true}

	cleared := f.Cleared()

	assert.Equal(t, 0, cleared.ActiveCount())
	assert.Equal(t, ids(sampleProducts()[:3]), ids(Apply(sampleProducts(), cleared)))
}
