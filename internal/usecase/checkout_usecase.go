package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// CheckoutCarts — то, что оформлению заказа нужно от CartStore.
type CheckoutCarts interface {
	Summary(ctx context.Context, sessionID string) (*CartSummary, error)
	RemoveOrdered(ctx context.Context, sessionID string, lines []domain.OrderLine) (*CartSummary, error)
}

// CheckoutUseCase проводит заказ по состояниям Idle → Validating → Submitting → Succeeded | Failed.
// Для каждой сессии одновременно выполняется не больше одного оформления.
type CheckoutUseCase struct {
	carts      CheckoutCarts
	orders     OrderAPI
	locator    Locator
	producer   EventProducer
	pricing    domain.Pricing
	geoTimeout time.Duration
	logger     logger.Logger

	mu     sync.Mutex
	states map[string]domain.CheckoutState
}

func NewCheckoutUC(
	carts CheckoutCarts,
	orders OrderAPI,
	locator Locator,
	producer EventProducer,
	pricing domain.Pricing,
	geoTimeout time.Duration,
	logger logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:      carts,
		orders:     orders,
		locator:    locator,
		producer:   producer,
		pricing:    pricing,
		geoTimeout: geoTimeout,
		logger:     logger,
		states:     make(map[string]domain.CheckoutState),
	}
}

// State возвращает текущее состояние оформления для сессии.
func (c *CheckoutUseCase) State(sessionID string) domain.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state, ok := c.states[sessionID]; ok {
		return state
	}
	return domain.CheckoutIdle
}

// PlaceOrder проверяет форму, собирает заказ и отправляет его в Store API.
// Любой исход возвращает сессию в Idle; повторов нет.
// Начатая отправка не прерывается отменой контекста запроса.
func (c *CheckoutUseCase) PlaceOrder(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	const op = "CheckoutUseCase.PlaceOrder"

	if !c.begin(req.SessionID) {
		return nil, e.NewValidationError("", domain.MsgCheckoutInProgress, e.ErrCheckoutInProgress)
	}

	orderReq, totals, err := c.validate(ctx, req)
	if err != nil {
		c.transition(req.SessionID, domain.CheckoutIdle)
		return nil, e.Wrap(op, err)
	}

	c.transition(req.SessionID, domain.CheckoutSubmitting)
	submitCtx := context.WithoutCancel(ctx)

	location := c.resolveLocation(submitCtx, req)
	lat, lng := location.Coordinates()

	message, err := c.orders.PlaceOrder(submitCtx, req.Identity.Token, orderReq, lat, lng)
	if err != nil {
		c.transition(req.SessionID, domain.CheckoutFailed)
		c.logger.Errorf(e.Wrap(op, err), "failed to place order for user %s", orderReq.UserID)
		c.transition(req.SessionID, domain.CheckoutIdle)
		return nil, e.Wrap(op, err)
	}

	c.transition(req.SessionID, domain.CheckoutSucceeded)

	if _, err := c.carts.RemoveOrdered(submitCtx, req.SessionID, orderReq.Products); err != nil {
		c.logger.Warnf("Order placed but ordered items were not removed from cart, session_id: %s, error: %v", req.SessionID, e.Wrap(op, err))
	}

	c.publish(submitCtx, NewOrderPlacedEvent(req.SessionID, orderReq, lat, lng))

	if message == "" {
		message = domain.MsgOrderPlaced
	}

	// Исход отдан в ответе, запись о сессии больше не нужна.
	c.transition(req.SessionID, domain.CheckoutIdle)

	return &CheckoutResult{
		State:    domain.CheckoutSucceeded,
		Message:  message,
		Next:     "orders",
		Totals:   totals,
		Location: location,
	}, nil
}

// validate — состояние Validating: вход, непустая корзина, форма доставки.
func (c *CheckoutUseCase) validate(ctx context.Context, req *CheckoutRequest) (*domain.OrderRequest, domain.Totals, error) {
	if !req.Identity.LoggedIn(time.Now()) {
		return nil, domain.Totals{}, e.NewValidationError("", domain.MsgLoginRequired, e.ErrNotLoggedIn)
	}

	summary, err := c.carts.Summary(ctx, req.SessionID)
	if err != nil {
		return nil, domain.Totals{}, err
	}

	if len(summary.Items) == 0 {
		return nil, domain.Totals{}, e.NewValidationError("", domain.MsgCartEmpty, e.ErrCartEmpty)
	}

	pincode, err := req.Form.Validate()
	if err != nil {
		return nil, domain.Totals{}, err
	}

	orderReq := domain.NewOrderRequest(req.Identity.UserID, summary.Items, req.Form, pincode, summary.Totals.Total)
	return orderReq, summary.Totals, nil
}

// resolveLocation отдаёт координаты, которыми поделился пользователь, иначе спрашивает Locator.
// Неудача никогда не прерывает заказ: координаты становятся (0, 0).
func (c *CheckoutUseCase) resolveLocation(ctx context.Context, req *CheckoutRequest) domain.LocationResult {
	if loc, ok := req.Form.ReportedLocation(); ok {
		return domain.ResolvedLocation(loc.Lat, loc.Lng)
	}

	if c.locator == nil {
		return domain.UnresolvedLocation(domain.LocationUnsupported)
	}

	res := c.locator.Locate(ctx, req.ClientIP, c.geoTimeout)
	if res.Status != domain.LocationResolved {
		c.logger.Warnf("Geolocation %s for session %s, using default coordinates", res.Status, req.SessionID)
	}
	return res
}

func (c *CheckoutUseCase) publish(ctx context.Context, event *OrderPlacedEvent) {
	if c.producer == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.producer.PublishOrderPlaced(pubCtx, event); err != nil {
		c.logger.Warnf("Failed to publish order event %s: %v", event.EventID, err)
	}
}

// begin переводит сессию в Validating, если по ней не идёт отправка.
func (c *CheckoutUseCase) begin(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.states[sessionID]
	if state == domain.CheckoutValidating || state == domain.CheckoutSubmitting {
		return false
	}

	c.states[sessionID] = domain.CheckoutValidating
	c.logger.Debugf("checkout %s: %s -> %s", sessionID, state, domain.CheckoutValidating)
	return true
}

func (c *CheckoutUseCase) transition(sessionID string, to domain.CheckoutState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.states[sessionID]
	if to == domain.CheckoutIdle {
		delete(c.states, sessionID)
	} else {
		c.states[sessionID] = to
	}
	c.logger.Debugf("checkout %s: %s -> %s", sessionID, from, to)
}
