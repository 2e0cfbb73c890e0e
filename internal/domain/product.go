package domain

import "github.com/shopspring/decimal"

// Product описывает товар, полученный из Store API. После получения не изменяется.
type Product struct {
	ID            string
	Name          string
	Brand         string
	Category      string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Rating        float64
	Stock         bool
	ImageURL      string
}

// CategoryOptions — категории, которые витрина показывает в фильтрах.
var CategoryOptions = []string{
	"Hair accessories",
	"Make-up essentials",
	"Rings",
	"Hair care",
	"Earrings",
	"Perfumes",
	"Hand-wash",
	"Electronics",
	"Sanitary pads",
	"Hair removal",
	"Skincare",
	"Home decorative items",
	"Kitchen essentials",
	"Oral care",
	"Basic needs",
	"Personal care",
	"Bangles",
}

// BrandOptions — бренды, которые витрина показывает в фильтрах.
var BrandOptions = []string{
	"LuxeBeauty",
	"ColorPro",
	"SkinLux",
	"Elegance",
	"FlawlessBase",
	"GlossyBeauty",
}
