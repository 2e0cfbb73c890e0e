package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// CATALOG

type fakeCatalogAPI struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    []CatalogQuery
}

func (f *fakeCatalogAPI) record(kind CatalogQueryKind, value string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, CatalogQuery{Kind: kind, Value: value})
	return f.products, f.err
}

func (f *fakeCatalogAPI) SearchByName(_ context.Context, name string) ([]domain.Product, error) {
	return f.record(QueryByName, name)
}

func (f *fakeCatalogAPI) GetByCategory(_ context.Context, category string) ([]domain.Product, error) {
	return f.record(QueryByCategory, category)
}

func (f *fakeCatalogAPI) SearchByBrand(_ context.Context, brand string) ([]domain.Product, error) {
	return f.record(QueryByBrand, brand)
}

func (f *fakeCatalogAPI) SearchByPrice(_ context.Context, price decimal.Decimal) ([]domain.Product, error) {
	return f.record(QueryByPrice, price.String())
}

func (f *fakeCatalogAPI) Calls() []CatalogQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CatalogQuery(nil), f.calls...)
}

type fakeCatalogCache struct {
	mu      sync.Mutex
	entries map[string][]domain.Product
	getErr  error
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{entries: make(map[string][]domain.Product)}
}

func (f *fakeCatalogCache) GetProducts(_ context.Context, query CatalogQuery) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	products, ok := f.entries[query.CacheKey()]
	if !ok {
		return nil, e.ErrCacheMiss
	}
	return products, nil
}

func (f *fakeCatalogCache) SetProducts(_ context.Context, query CatalogQuery, products []domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[query.CacheKey()] = products
	return nil
}

func (f *fakeCatalogCache) Has(query CatalogQuery) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[query.CacheKey()]
	return ok
}

// CART

type fakeCartRepo struct {
	mu     sync.Mutex
	carts  map[string][]domain.CartItem
	getErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string][]domain.CartItem)}
}

func (f *fakeCartRepo) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return domain.NewCartFromItems(f.carts[sessionID]), nil
}

func (f *fakeCartRepo) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cart.IsEmpty() {
		delete(f.carts, sessionID)
		return nil
	}
	f.carts[sessionID] = cart.Items()
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, sessionID)
	return nil
}

// CHECKOUT

type placedOrder struct {
	token string
	req   domain.OrderRequest
	lat   float64
	lng   float64
	ctxOK bool
}

type fakeOrderAPI struct {
	mu      sync.Mutex
	orders  []placedOrder
	message string
	err     error

	started chan struct{}
	release chan struct{}
}

func (f *fakeOrderAPI) PlaceOrder(ctx context.Context, token string, req *domain.OrderRequest, lat, lng float64) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, placedOrder{token: token, req: *req, lat: lat, lng: lng, ctxOK: ctx.Err() == nil})
	return f.message, f.err
}

func (f *fakeOrderAPI) Orders() []placedOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]placedOrder(nil), f.orders...)
}

type fakeLocator struct {
	result  domain.LocationResult
	calls   int
	timeout time.Duration
}

func (f *fakeLocator) Locate(_ context.Context, _ string, timeout time.Duration) domain.LocationResult {
	f.calls++
	f.timeout = timeout
	return f.result
}

type fakeProducer struct {
	mu     sync.Mutex
	events []*OrderPlacedEvent
	err    error
}

func (f *fakeProducer) PublishOrderPlaced(_ context.Context, event *OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeProducer) Events() []*OrderPlacedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*OrderPlacedEvent(nil), f.events...)
}

// BLOG

type fakeBlogRepo struct {
	posts []domain.BlogPost
	err   error
}

func (f *fakeBlogRepo) ListPosts(context.Context) ([]domain.BlogPost, error) {
	return f.posts, f.err
}
