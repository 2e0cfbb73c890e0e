package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type CatalogUC interface {
	Search(ctx context.Context, req *SearchQuery) (*SearchResult, error)
	Suggest(ctx context.Context, name string, limit int) ([]domain.Product, error)
}

type CartUC interface {
	Summary(ctx context.Context, sessionID string) (*CartSummary, error)
	Add(ctx context.Context, sessionID string, product domain.Product, quantity int) (*CartSummary, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID string, quantity int) (*CartSummary, error)
	Remove(ctx context.Context, sessionID string, productID string) (*CartSummary, error)
	Clear(ctx context.Context, sessionID string) (*CartSummary, error)
	Subscribe(fn CartListener) (unsubscribe func())
}

type CheckoutUC interface {
	PlaceOrder(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error)
	State(sessionID string) domain.CheckoutState
}

type BlogUC interface {
	ListPosts(ctx context.Context) ([]domain.BlogPost, error)
}
