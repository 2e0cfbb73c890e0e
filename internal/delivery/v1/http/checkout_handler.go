package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase, logger: logger}
}

// placeOrder — отправка формы оформления заказа.
func (c *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := c.checkoutUsecase.PlaceOrder(r.Context(), &usecase.CheckoutRequest{
		SessionID: SessionID(r.Context()),
		ClientIP:  clientIP(r),
		Identity:  Identity(r.Context()),
		Form:      req.toShippingForm(),
	})
	if err != nil {
		c.logger.Warnf("checkout rejected: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCheckoutResponse(res))
}

func (c *CheckoutHandler) state(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, CheckoutStateResponse{
		State: string(c.checkoutUsecase.State(SessionID(r.Context()))),
	})
}

// regionWarning — подсказка под селекторами штата и города.
func (c *CheckoutHandler) regionWarning(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	WriteSuccess(w, http.StatusOK, RegionWarningResponse{
		Warning: domain.RegionWarning(q.Get("city"), q.Get("state")),
	})
}
