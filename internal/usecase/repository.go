package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

// CartRepository хранит корзины сессий. Для неизвестной сессии Get возвращает пустую корзину.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// CatalogCacheRepository кэширует ответы Store API по запросу. При промахе возвращает e.ErrCacheMiss.
type CatalogCacheRepository interface {
	GetProducts(ctx context.Context, query CatalogQuery) ([]domain.Product, error)
	SetProducts(ctx context.Context, query CatalogQuery, products []domain.Product) error
}

// BlogRepository отдаёт записи блога. Без манифеста возвращает e.ErrObjectNotFound.
type BlogRepository interface {
	ListPosts(ctx context.Context) ([]domain.BlogPost, error)
}
