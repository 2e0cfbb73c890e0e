package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartStore() (*CartStore, *fakeCartRepo) {
	repo := newFakeCartRepo()
	return NewCartStore(repo, domain.DefaultPricing(), logger.NewNop()), repo
}

func product(id string, price string) domain.Product {
	return domain.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), Stock: true}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []CartEvent
}

func (r *eventRecorder) listen(event CartEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) kinds() []CartEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]CartEventKind, 0, len(r.events))
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestCartStore_AddAndSummary(t *testing.T) {
	store, _ := newTestCartStore()
	ctx := context.Background()

	_, err := store.Add(ctx, testSession, product("1", "10.00"), 2)
	require.NoError(t, err)

	summary, err := store.Add(ctx, testSession, product("1", "10.00"), 1)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, "30.00", summary.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "8.99", summary.Totals.Shipping.StringFixed(2))
	assert.Equal(t, 3, summary.Totals.ItemCount)

	again, err := store.Summary(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, summary.Items, again.Items)
}

func TestCartStore_AddErrors(t *testing.T) {
	tests := []struct {
		name     string
		product  domain.Product
		quantity int
		wantErr  error
	}{
		{
			name:     "out of stock",
			product:  domain.Product{ID: "1", Price: decimal.NewFromInt(5), Stock: false},
			quantity: 1,
			wantErr:  e.ErrProductOutOfStock,
		},
		{
			name:     "zero quantity",
			product:  product("1", "5"),
			quantity: 0,
			wantErr:  e.ErrQuantityMustBePositive,
		},
		{
			name:     "missing id",
			product:  product("", "5"),
			quantity: 1,
			wantErr:  e.ErrProductIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, repo := newTestCartStore()
			rec := &eventRecorder{}
			store.Subscribe(rec.listen)

			_, err := store.Add(context.Background(), testSession, tt.product, tt.quantity)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var vErr *e.ValidationError
			assert.ErrorAs(t, err, &vErr)

			assert.Empty(t, rec.kinds())
			assert.Empty(t, repo.carts)
		})
	}
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	store, _ := newTestCartStore()
	ctx := context.Background()

	_, err := store.Add(ctx, testSession, product("1", "10"), 1)
	require.NoError(t, err)

	summary, err := store.UpdateQuantity(ctx, testSession, "1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Items[0].Quantity)

	summary, err = store.UpdateQuantity(ctx, testSession, "1", 0)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	_, err = store.UpdateQuantity(ctx, testSession, "missing", 2)
	assert.ErrorIs(t, err, e.ErrItemNotInCart)
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	store, repo := newTestCartStore()
	ctx := context.Background()

	_, err := store.Add(ctx, testSession, product("1", "10"), 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, testSession, product("2", "20"), 1)
	require.NoError(t, err)

	summary, err := store.Remove(ctx, testSession, "1")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "2", summary.Items[0].ProductID)

	_, err = store.Remove(ctx, testSession, "1")
	require.NoError(t, err)

	summary, err = store.Clear(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.True(t, summary.Totals.Total.IsZero())
	assert.NotContains(t, repo.carts, testSession)
}

func TestCartStore_RemoveOrdered(t *testing.T) {
	store, repo := newTestCartStore()
	rec := &eventRecorder{}
	store.Subscribe(rec.listen)
	ctx := context.Background()

	_, err := store.Add(ctx, testSession, product("1", "10"), 3)
	require.NoError(t, err)
	_, err = store.Add(ctx, testSession, product("2", "20"), 1)
	require.NoError(t, err)

	summary, err := store.RemoveOrdered(ctx, testSession, []domain.OrderLine{{ProductID: "1", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, 1, summary.Items[0].Quantity)
	assert.Equal(t, "30.00", summary.Totals.Subtotal.StringFixed(2))

	summary, err = store.RemoveOrdered(ctx, testSession, []domain.OrderLine{
		{ProductID: "1", Quantity: 1},
		{ProductID: "2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.NotContains(t, repo.carts, testSession)

	assert.Equal(t, []CartEventKind{CartItemAdded, CartItemAdded, CartOrdered, CartOrdered}, rec.kinds())
}

func TestCartStore_SessionsAreIsolated(t *testing.T) {
	store, _ := newTestCartStore()
	ctx := context.Background()

	_, err := store.Add(ctx, "a", product("1", "10"), 1)
	require.NoError(t, err)

	other, err := store.Summary(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCartStore_SubscribeReceivesEvents(t *testing.T) {
	store, _ := newTestCartStore()
	ctx := context.Background()

	rec := &eventRecorder{}
	unsubscribe := store.Subscribe(rec.listen)

	_, err := store.Add(ctx, testSession, product("1", "10"), 1)
	require.NoError(t, err)
	_, err = store.UpdateQuantity(ctx, testSession, "1", 3)
	require.NoError(t, err)
	_, err = store.UpdateQuantity(ctx, testSession, "1", 0)
	require.NoError(t, err)
	_, err = store.Clear(ctx, testSession)
	require.NoError(t, err)

	assert.Equal(t, []CartEventKind{CartItemAdded, CartItemUpdated, CartItemRemoved, CartCleared}, rec.kinds())

	rec.mu.Lock()
	first := rec.events[0]
	rec.mu.Unlock()
	assert.Equal(t, testSession, first.SessionID)
	assert.Equal(t, "1", first.ProductID)
	assert.Equal(t, 1, first.Summary.Totals.ItemCount)

	unsubscribe()
	unsubscribe()

	_, err = store.Add(ctx, testSession, product("2", "10"), 1)
	require.NoError(t, err)
	assert.Len(t, rec.kinds(), 4)
}

func TestCartStore_ConcurrentAddsAreSerialized(t *testing.T) {
	store, _ := newTestCartStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Add(ctx, testSession, product("1", "1"), 1)
		}()
	}
	wg.Wait()

	summary, err := store.Summary(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 50, summary.Items[0].Quantity)
}

func TestCartStore_RepositoryError(t *testing.T) {
	store, repo := newTestCartStore()
	repo.getErr = errors.New("redis: connection refused")

	_, err := store.Add(context.Background(), testSession, product("1", "10"), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.getErr)

	_, err = store.Summary(context.Background(), testSession)
	assert.ErrorIs(t, err, repo.getErr)
}
