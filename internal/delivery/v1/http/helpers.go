package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

const maxJSONBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// statusByErr — статусы ответа для известных ошибок, проверяются по порядку.
var statusByErr = []struct {
	err  error
	code int
}{
	{e.ErrNotLoggedIn, http.StatusUnauthorized},
	{e.ErrItemNotInCart, http.StatusNotFound},
	{e.ErrCheckoutInProgress, http.StatusConflict},
	{e.ErrTooManyRequests, http.StatusTooManyRequests},
	{e.ErrMissingShippingFields, http.StatusUnprocessableEntity},
	{e.ErrInvalidPincode, http.StatusUnprocessableEntity},
	{e.ErrUnsupportedRegion, http.StatusUnprocessableEntity},
	{e.ErrUnknownPaymentMethod, http.StatusUnprocessableEntity},
	{e.ErrCartEmpty, http.StatusUnprocessableEntity},
	{e.ErrProductOutOfStock, http.StatusUnprocessableEntity},
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrInvalidJSON, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrInvalidRating, http.StatusBadRequest},
	{e.ErrProductIDRequired, http.StatusBadRequest},
	{e.ErrQuantityMustBePositive, http.StatusBadRequest},
}

// ToHTTPResponse сопоставляет ошибку со статусом и сообщением для пользователя.
// Отказ Store API отдаётся как 502 с сообщением из его ответа.
func ToHTTPResponse(err error) (int, string) {
	for _, s := range statusByErr {
		if errors.Is(err, s.err) {
			return s.code, e.UserMessage(err, s.err.Error())
		}
	}

	var (
		apiErr   *e.APIError
		parseErr *e.ParseError
	)
	switch {
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, e.UserMessage(err, http.StatusText(apiErr.StatusCode))
	case errors.As(err, &parseErr), errors.Is(err, e.ErrUpstreamUnavailable):
		return http.StatusBadGateway, e.ErrUpstreamUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	res := NewErrorResponse(code, msg)

	var vErr *e.ValidationError
	if errors.As(err, &vErr) {
		res.Field = vErr.Field
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(res)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Данные после первого объекта считаются ошибкой.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return e.ErrInvalidJSON
	}

	return nil
}

// parsePrice разбирает неотрицательную цену с не более чем двумя знаками после запятой.
func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || d.Exponent() < -2 {
		return decimal.Zero, e.ErrInvalidPrice
	}
	return d, nil
}

func parseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 5 {
		return 0, e.ErrInvalidRating
	}
	return v, nil
}

// money форматирует сумму с двумя знаками после запятой.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
