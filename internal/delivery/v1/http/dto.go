package http

import (
	"encoding/json"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// CATALOG

type ProductResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Price         string  `json:"price"`
	OriginalPrice string  `json:"originalPrice,omitempty"`
	Rating        float64 `json:"rating"`
	Stock         bool    `json:"stock"`
	Image         string  `json:"image,omitempty"`
}

type PriceRangeResponse struct {
	Min string `json:"min"`
	Max string `json:"max,omitempty"`
}

type FilterStateResponse struct {
	Categories []string           `json:"categories"`
	Brands     []string           `json:"brands"`
	PriceRange PriceRangeResponse `json:"priceRange"`
	Rating     float64            `json:"rating"`
	InStock    bool               `json:"inStock"`
}

type SearchResponse struct {
	Products      []ProductResponse   `json:"products"`
	Total         int                 `json:"total"`
	Count         int                 `json:"count"`
	Filters       FilterStateResponse `json:"filters"`
	ActiveFilters int                 `json:"activeFilters"`
	Warning       string              `json:"warning,omitempty"`
}

type FacetsResponse struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	MaxPrice   string   `json:"maxPrice"`
}

// CART

type ProductRequest struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Brand         string       `json:"brand"`
	Category      string       `json:"category"`
	Price         json.Number  `json:"price"`
	OriginalPrice *json.Number `json:"originalPrice"`
	Rating        float64      `json:"rating"`
	Stock         bool         `json:"stock"`
	Image         string       `json:"image"`
}

type AddItemRequest struct {
	Product  ProductRequest `json:"product"`
	Quantity *int           `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
	Brand     string `json:"brand,omitempty"`
	Image     string `json:"image,omitempty"`
	Stock     bool   `json:"stock"`
}

type TotalsResponse struct {
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
	Shipping  string `json:"shipping"`
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

type CartResponse struct {
	Items  []CartItemResponse `json:"items"`
	Totals TotalsResponse     `json:"totals"`
}

type CartEventResponse struct {
	Kind      string       `json:"kind"`
	ProductID string       `json:"productId,omitempty"`
	Cart      CartResponse `json:"cart"`
}

// CHECKOUT

type CheckoutRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Pincode       string   `json:"pincode"`
	PaymentMethod string   `json:"paymentMethod"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

type LocationResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

type CheckoutResponse struct {
	State    string           `json:"state"`
	Message  string           `json:"message"`
	Next     string           `json:"next"`
	Totals   TotalsResponse   `json:"totals"`
	Location LocationResponse `json:"location"`
}

type CheckoutStateResponse struct {
	State string `json:"state"`
}

type RegionWarningResponse struct {
	Warning string `json:"warning,omitempty"`
}

// BLOG

type BlogPostResponse struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Image   string `json:"image"`
	Date    string `json:"date"`
}

// MAPPERS

func toProductResponse(p *domain.Product) ProductResponse {
	res := ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    money(p.Price),
		Rating:   p.Rating,
		Stock:    p.Stock,
		Image:    p.ImageURL,
	}
	if !p.OriginalPrice.IsZero() {
		res.OriginalPrice = money(p.OriginalPrice)
	}
	return res
}

func toArrProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

func toFilterStateResponse(f domain.FilterState) FilterStateResponse {
	res := FilterStateResponse{
		Categories: nonNil(f.Categories),
		Brands:     nonNil(f.Brands),
		PriceRange: PriceRangeResponse{Min: money(f.PriceRange.Min)},
		Rating:     f.MinRating,
		InStock:    f.InStockOnly,
	}
	if f.PriceRange.Max != nil {
		res.PriceRange.Max = money(*f.PriceRange.Max)
	}
	return res
}

func toSearchResponse(r *usecase.SearchResult) SearchResponse {
	return SearchResponse{
		Products:      toArrProductResponse(r.Products),
		Total:         r.Fetched,
		Count:         len(r.Products),
		Filters:       toFilterStateResponse(r.Filters),
		ActiveFilters: r.ActiveFilters,
		Warning:       r.Warning,
	}
}

func toTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:  money(t.Subtotal),
		Tax:       money(t.Tax),
		Shipping:  money(t.Shipping),
		Total:     money(t.Total),
		ItemCount: t.ItemCount,
	}
}

func toCartResponse(s *usecase.CartSummary) CartResponse {
	items := make([]CartItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     money(item.Price),
			Quantity:  item.Quantity,
			LineTotal: money(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			Brand:     item.Brand,
			Image:     item.ImageURL,
			Stock:     item.Stock,
		})
	}

	return CartResponse{Items: items, Totals: toTotalsResponse(s.Totals)}
}

func toCartEventResponse(event usecase.CartEvent) CartEventResponse {
	return CartEventResponse{
		Kind:      string(event.Kind),
		ProductID: event.ProductID,
		Cart:      toCartResponse(&event.Summary),
	}
}

// toDomainProduct проверяет снимок товара, присланный клиентом вместе с добавлением в корзину.
func (p *ProductRequest) toDomainProduct() (domain.Product, error) {
	if strings.TrimSpace(p.ID) == "" {
		return domain.Product{}, e.NewValidationError("product.id", "", e.ErrProductIDRequired)
	}

	price, err := parsePrice(p.Price.String())
	if err != nil {
		return domain.Product{}, e.NewValidationError("product.price", "", err)
	}

	original := decimal.Zero
	if p.OriginalPrice != nil {
		if original, err = parsePrice(p.OriginalPrice.String()); err != nil {
			return domain.Product{}, e.NewValidationError("product.originalPrice", "", err)
		}
	}

	if p.Rating < 0 || p.Rating > 5 {
		return domain.Product{}, e.NewValidationError("product.rating", "", e.ErrInvalidRating)
	}

	return domain.Product{
		ID:            strings.TrimSpace(p.ID),
		Name:          p.Name,
		Brand:         p.Brand,
		Category:      p.Category,
		Price:         price,
		OriginalPrice: original,
		Rating:        p.Rating,
		Stock:         p.Stock,
		ImageURL:      p.Image,
	}, nil
}

func (c *CheckoutRequest) toShippingForm() domain.ShippingForm {
	return domain.ShippingForm{
		Name:          strings.TrimSpace(c.Name),
		Email:         strings.TrimSpace(c.Email),
		Phone:         strings.TrimSpace(c.Phone),
		Address:       c.Address,
		City:          strings.TrimSpace(c.City),
		State:         strings.TrimSpace(c.State),
		Pincode:       c.Pincode,
		PaymentMethod: domain.PaymentMethod(strings.ToLower(strings.TrimSpace(c.PaymentMethod))),
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
	}
}

func toCheckoutResponse(r *usecase.CheckoutResult) CheckoutResponse {
	lat, lng := r.Location.Coordinates()
	return CheckoutResponse{
		State:   string(r.State),
		Message: r.Message,
		Next:    r.Next,
		Totals:  toTotalsResponse(r.Totals),
		Location: LocationResponse{
			Status: string(r.Location.Status),
			Lat:    lat,
			Lng:    lng,
		},
	}
}

func toArrBlogPostResponse(posts []domain.BlogPost) []BlogPostResponse {
	res := make([]BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		res = append(res, BlogPostResponse{
			Title:   p.Title,
			Excerpt: p.Excerpt,
			Image:   p.ImageURL,
			Date:    p.Date.Format("2006-01-02"),
		})
	}
	return res
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
