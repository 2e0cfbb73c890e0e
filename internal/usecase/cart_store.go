package usecase

import (
	"context"
	"sync"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// CartStore — единственный на приложение владелец корзин сессий.
// Мутации сериализуются, после каждой успешной мутации подписчики получают CartEvent.
type CartStore struct {
	repo    CartRepository
	pricing domain.Pricing
	logger  logger.Logger

	mu sync.Mutex

	subsMu    sync.RWMutex
	listeners map[uint64]CartListener
	nextSubID uint64
}

func NewCartStore(repo CartRepository, pricing domain.Pricing, logger logger.Logger) *CartStore {
	return &CartStore{
		repo:      repo,
		pricing:   pricing,
		logger:    logger,
		listeners: make(map[uint64]CartListener),
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
func (s *CartStore) Subscribe(fn CartListener) func() {
	s.subsMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.listeners, id)
			s.subsMu.Unlock()
		})
	}
}

// Summary возвращает корзину сессии с итогами.
func (s *CartStore) Summary(ctx context.Context, sessionID string) (*CartSummary, error) {
	const op = "CartStore.Summary"

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCartSummary(sessionID, cart, s.pricing), nil
}

// Add кладёт товар в корзину. Товары не в наличии не добавляются.
func (s *CartStore) Add(ctx context.Context, sessionID string, product domain.Product, quantity int) (*CartSummary, error) {
	const op = "CartStore.Add"

	if !product.Stock {
		return nil, e.NewValidationError("productId", "", e.ErrProductOutOfStock)
	}

	summary, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		if err := cart.AddItem(product, quantity); err != nil {
			return e.NewValidationError("", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.notify(CartEvent{Kind: CartItemAdded, SessionID: sessionID, ProductID: product.ID, Summary: *summary})
	return summary, nil
}

// UpdateQuantity устанавливает количество; значение меньше 1 удаляет строку.
func (s *CartStore) UpdateQuantity(ctx context.Context, sessionID string, productID string, quantity int) (*CartSummary, error) {
	const op = "CartStore.UpdateQuantity"

	kind := CartItemUpdated
	if quantity < 1 {
		kind = CartItemRemoved
	}

	summary, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		if !cart.UpdateQuantity(productID, quantity) {
			return e.ErrItemNotInCart
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.notify(CartEvent{Kind: kind, SessionID: sessionID, ProductID: productID, Summary: *summary})
	return summary, nil
}

// Remove удаляет строку. Отсутствие строки ошибкой не считается.
func (s *CartStore) Remove(ctx context.Context, sessionID string, productID string) (*CartSummary, error) {
	const op = "CartStore.Remove"

	summary, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.notify(CartEvent{Kind: CartItemRemoved, SessionID: sessionID, ProductID: productID, Summary: *summary})
	return summary, nil
}

// Clear очищает корзину, например после успешного заказа.
func (s *CartStore) Clear(ctx context.Context, sessionID string) (*CartSummary, error) {
	const op = "CartStore.Clear"

	s.mu.Lock()
	err := s.repo.Delete(ctx, sessionID)
	s.mu.Unlock()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	summary := NewCartSummary(sessionID, domain.NewCart(), s.pricing)
	s.notify(CartEvent{Kind: CartCleared, SessionID: sessionID, Summary: *summary})
	return summary, nil
}

// RemoveOrdered вычитает заказанные количества из корзины одной мутацией.
// Строки, добавленные во время отправки заказа, остаются в корзине.
func (s *CartStore) RemoveOrdered(ctx context.Context, sessionID string, lines []domain.OrderLine) (*CartSummary, error) {
	const op = "CartStore.RemoveOrdered"

	summary, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		for _, line := range lines {
			cart.Subtract(line.ProductID, line.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.notify(CartEvent{Kind: CartOrdered, SessionID: sessionID, Summary: *summary})
	return summary, nil
}

// mutate загружает корзину, применяет fn и сохраняет результат под общим мьютексом.
func (s *CartStore) mutate(ctx context.Context, sessionID string, fn func(cart *domain.Cart) error) (*CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return NewCartSummary(sessionID, cart, s.pricing), nil
}

func (s *CartStore) notify(event CartEvent) {
	s.subsMu.RLock()
	listeners := make([]CartListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.subsMu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}
