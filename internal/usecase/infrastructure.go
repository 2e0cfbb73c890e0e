package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductCatalogAPI — запросы товаров во внешний Store API.
type ProductCatalogAPI interface {
	SearchByName(ctx context.Context, name string) ([]domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Product, error)
	SearchByBrand(ctx context.Context, brand string) ([]domain.Product, error)
	SearchByPrice(ctx context.Context, price decimal.Decimal) ([]domain.Product, error)
}

// OrderAPI размещает заказ во внешнем Store API и возвращает подтверждение для пользователя.
type OrderAPI interface {
	PlaceOrder(ctx context.Context, token string, req *domain.OrderRequest, lat, lng float64) (string, error)
}

// Locator определяет геопозицию клиента. Никогда не ждёт дольше timeout и не возвращает ошибку:
// неудача выражается статусом результата.
type Locator interface {
	Locate(ctx context.Context, clientIP string, timeout time.Duration) domain.LocationResult
}

// EventProducer публикует события оформленных заказов.
type EventProducer interface {
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error
}

// SessionDecoder извлекает пользователя из токена сессии.
type SessionDecoder interface {
	Decode(token string) (*domain.Identity, error)
}
