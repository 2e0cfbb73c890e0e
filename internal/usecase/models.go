package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CATALOG

// CatalogQueryKind — вид запроса товаров в Store API.
type CatalogQueryKind string

const (
	QueryByName     CatalogQueryKind = "name"
	QueryByCategory CatalogQueryKind = "category"
	QueryByBrand    CatalogQueryKind = "brand"
	QueryByPrice    CatalogQueryKind = "price"
)

// CatalogQuery — один запрос к Store API, он же ключ кэша.
type CatalogQuery struct {
	Kind  CatalogQueryKind
	Value string
}

func (q CatalogQuery) CacheKey() string {
	return fmt.Sprintf("catalog:%s:%s", q.Kind, q.Value)
}

// SearchQuery — параметры страницы поиска: что запросить у Store API и как отфильтровать результат.
type SearchQuery struct {
	Name     string
	Category string
	Brand    string
	Price    *decimal.Decimal
	Filters  domain.FilterState
}

// Primary выбирает запрос к Store API по приоритету: имя, категория, бренд, цена.
func (s *SearchQuery) Primary() (CatalogQuery, bool) {
	switch {
	case strings.TrimSpace(s.Name) != "":
		return CatalogQuery{Kind: QueryByName, Value: strings.TrimSpace(s.Name)}, true
	case s.Category != "":
		return CatalogQuery{Kind: QueryByCategory, Value: s.Category}, true
	case s.Brand != "":
		return CatalogQuery{Kind: QueryByBrand, Value: s.Brand}, true
	case s.Price != nil:
		return CatalogQuery{Kind: QueryByPrice, Value: s.Price.String()}, true
	default:
		return CatalogQuery{}, false
	}
}

// SearchResult — ответ страницы поиска.
type SearchResult struct {
	Products      []domain.Product
	Fetched       int
	Filters       domain.FilterState
	ActiveFilters int
	Warning       string
}

// CART

// CartSummary — содержимое корзины сессии с итогами.
type CartSummary struct {
	SessionID string
	Items     []domain.CartItem
	Totals    domain.Totals
}

// CartEventKind — вид изменения корзины.
type CartEventKind string

const (
	CartItemAdded   CartEventKind = "item_added"
	CartItemUpdated CartEventKind = "item_updated"
	CartItemRemoved CartEventKind = "item_removed"
	CartCleared     CartEventKind = "cleared"
	CartOrdered     CartEventKind = "ordered"
)

// CartEvent рассылается подписчикам CartStore после каждой успешной мутации.
type CartEvent struct {
	Kind      CartEventKind
	SessionID string
	ProductID string
	Summary   CartSummary
}

// CartListener — подписчик на изменения корзин. Не должен блокироваться.
type CartListener func(event CartEvent)

// CHECKOUT

// CheckoutRequest — отправка формы оформления заказа.
type CheckoutRequest struct {
	SessionID string
	ClientIP  string
	Identity  *domain.Identity
	Form      domain.ShippingForm
}

// CheckoutResult — исход успешного оформления.
type CheckoutResult struct {
	State    domain.CheckoutState
	Message  string
	Next     string
	Totals   domain.Totals
	Location domain.LocationResult
}

// OrderPlacedEvent публикуется после подтверждения заказа Store API.
type OrderPlacedEvent struct {
	EventID       string
	SessionID     string
	UserID        string
	Products      []domain.OrderLine
	Total         decimal.Decimal
	PaymentMethod domain.PaymentMethod
	Latitude      float64
	Longitude     float64
	PlacedAt      time.Time
}

// MAPPERS

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil || price.IsNegative() {
		return decimal.Zero, e.ErrInvalidPrice
	}
	return price, nil
}

func NewCatalogQuery(kind CatalogQueryKind, value string) CatalogQuery {
	return CatalogQuery{Kind: kind, Value: value}
}

func NewCartSummary(sessionID string, cart *domain.Cart, pricing domain.Pricing) *CartSummary {
	return &CartSummary{
		SessionID: sessionID,
		Items:     cart.Items(),
		Totals:    pricing.CartTotals(cart),
	}
}

func NewOrderPlacedEvent(sessionID string, req *domain.OrderRequest, lat, lng float64) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		EventID:       uuid.NewString(),
		SessionID:     sessionID,
		UserID:        req.UserID,
		Products:      req.Products,
		Total:         req.Price,
		PaymentMethod: req.PaymentMethod,
		Latitude:      lat,
		Longitude:     lng,
		PlacedAt:      time.Now().UTC(),
	}
}
