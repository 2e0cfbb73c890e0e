package memory

import (
	"context"
	"sync"

	"github.com/DRSN-tech/storefront/internal/domain"
)

// CartRepo хранит корзины в памяти процесса. Используется при CART_STORE=memory и в тестах.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem // key: session ID
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[string][]domain.CartItem)}
}

// Get возвращает копию корзины, чтобы изменения вызывающего не попадали в хранилище до Save.
func (m *CartRepo) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.NewCartFromItems(m.carts[sessionID]), nil
}

func (m *CartRepo) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cart.IsEmpty() {
		delete(m.carts, sessionID)
		return nil
	}
	m.carts[sessionID] = cart.Items()
	return nil
}

func (m *CartRepo) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, sessionID)
	return nil
}
