package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultMaxPrice — верхняя граница ценового слайдера по умолчанию.
var DefaultMaxPrice = decimal.NewFromInt(200)

// PriceRange — ценовой диапазон фильтра, обе границы включительно.
// Max == nil означает отсутствие верхней границы; явный ноль оставляет только бесплатные товары.
type PriceRange struct {
	Min decimal.Decimal
	Max *decimal.Decimal
}

// UpTo возвращает диапазон [0, upper].
func UpTo(upper decimal.Decimal) PriceRange {
	return PriceRange{Min: decimal.Zero, Max: &upper}
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	if r.Max != nil && price.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// FilterState описывает выбранные пользователем фильтры. Пересчитывается при каждом изменении.
type FilterState struct {
	Categories  []string
	Brands      []string
	PriceRange  PriceRange
	MinRating   float64
	InStockOnly bool
}

// DefaultFilterState строит начальное состояние фильтров по параметрам поиска:
// категория и бренд из запроса сразу попадают в выбранные, цена задаёт верхнюю границу.
func DefaultFilterState(category, brand string, maxPrice *decimal.Decimal) FilterState {
	f := FilterState{
		PriceRange: UpTo(DefaultMaxPrice),
	}
	if category != "" {
		f.Categories = []string{category}
	}
	if brand != "" {
		f.Brands = []string{brand}
	}
	if maxPrice != nil {
		f.PriceRange = UpTo(*maxPrice)
	}
	return f
}

// Apply возвращает товары, удовлетворяющие всем активным фильтрам.
// Внутри категорий и брендов OR по выбранному набору, между измерениями AND.
// Входной слайс не изменяется.
func Apply(products []Product, f FilterState) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// Matches проверяет один товар против всех измерений фильтра.
func (f FilterState) Matches(p Product) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if !f.PriceRange.Contains(p.Price) {
		return false
	}
	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}
	if f.InStockOnly && !p.Stock {
		return false
	}
	return true
}

// ActiveCount — число активных фильтров для кнопки "Clear All".
func (f FilterState) ActiveCount() int {
	count := len(f.Categories) + len(f.Brands)
	if f.MinRating > 0 {
		count++
	}
	if f.InStockOnly {
		count++
	}
	narrowedMax := f.PriceRange.Max != nil && f.PriceRange.Max.LessThan(DefaultMaxPrice)
	if f.PriceRange.Min.GreaterThan(decimal.Zero) || narrowedMax {
		count++
	}
	return count
}

// ToggleCategory добавляет категорию в выбранные или убирает, если она уже выбрана.
func (f FilterState) ToggleCategory(category string) FilterState {
	f.Categories = toggle(f.Categories, category)
	return f
}

// ToggleBrand добавляет бренд в выбранные или убирает, если он уже выбран.
func (f FilterState) ToggleBrand(brand string) FilterState {
	f.Brands = toggle(f.Brands, brand)
	return f
}

// Cleared сбрасывает все фильтры к значениям по умолчанию.
func (f FilterState) Cleared() FilterState {
	return DefaultFilterState("", "", nil)
}

func toggle(values []string, value string) []string {
	if slices.Contains(values, value) {
		return slices.DeleteFunc(slices.Clone(values), func(v string) bool { return v == value })
	}
	return append(slices.Clone(values), value)
}
