package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const (
	sseHeartbeatInterval = 25 * time.Second
	sseBufferSize        = 16
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

func (c *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	summary, err := c.cartUsecase.Summary(r.Context(), SessionID(r.Context()))
	if err != nil {
		c.logger.Errorf(err, "failed to load cart")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(summary))
}

func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := req.Product.toDomainProduct()
	if err != nil {
		WriteError(w, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	summary, err := c.cartUsecase.Add(r.Context(), SessionID(r.Context()), product, quantity)
	if err != nil {
		c.logger.Warnf("add to cart failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(summary))
}

func (c *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Quantity == nil {
		WriteError(w, e.NewValidationError("quantity", "quantity is required", e.ErrStatusBadRequest))
		return
	}

	summary, err := c.cartUsecase.UpdateQuantity(r.Context(), SessionID(r.Context()), chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(summary))
}

func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	summary, err := c.cartUsecase.Remove(r.Context(), SessionID(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		c.logger.Errorf(err, "failed to remove cart item")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(summary))
}

func (c *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	summary, err := c.cartUsecase.Clear(r.Context(), SessionID(r.Context()))
	if err != nil {
		c.logger.Errorf(err, "failed to clear cart")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(summary))
}

// events — поток server-sent events с изменениями корзины текущей сессии.
// Первым событием отправляется текущее содержимое корзины.
func (c *CartHandler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, e.ErrInternalServerError)
		return
	}

	sessionID := SessionID(r.Context())
	summary, err := c.cartUsecase.Summary(r.Context(), sessionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	events := make(chan usecase.CartEvent, sseBufferSize)
	unsubscribe := c.cartUsecase.Subscribe(func(event usecase.CartEvent) {
		if event.SessionID != sessionID {
			return
		}
		select {
		case events <- event:
		default:
			c.logger.Warnf("cart event stream is slow, dropping %s for session %s", event.Kind, sessionID)
		}
	})
	defer unsubscribe()

	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeSSE(w, "snapshot", toCartResponse(summary)); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-events:
			if err := writeSSE(w, "cart", toCartEventResponse(event)); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
