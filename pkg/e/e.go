package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrCacheMiss            = fmt.Errorf("cache miss")
	ErrObjectNotFound       = fmt.Errorf("object not found")

	// 400 Bad Request
	ErrStatusBadRequest       = fmt.Errorf("bad request")
	ErrInvalidJSON            = fmt.Errorf("invalid JSON payload")
	ErrInvalidPrice           = fmt.Errorf("invalid price")
	ErrInvalidRating          = fmt.Errorf("rating must be between 0 and 5")
	ErrProductIDRequired      = fmt.Errorf("product id is required")
	ErrQuantityMustBePositive = fmt.Errorf("quantity must be positive")
	ErrProductOutOfStock      = fmt.Errorf("product is out of stock")

	// 401 Unauthorized
	ErrNotLoggedIn = fmt.Errorf("not logged in")

	// 404 Not Found
	ErrItemNotInCart = fmt.Errorf("item not in cart")

	// 409 Conflict
	ErrCheckoutInProgress = fmt.Errorf("order is already being placed")

	// 422 Checkout validation
	ErrMissingShippingFields = fmt.Errorf("missing shipping fields")
	ErrInvalidPincode        = fmt.Errorf("pincode must be numeric")
	ErrUnsupportedRegion     = fmt.Errorf("unsupported delivery region")
	ErrUnknownPaymentMethod  = fmt.Errorf("unknown payment method")
	ErrCartEmpty             = fmt.Errorf("cart is empty")

	// 429 Too Many Requests
	ErrTooManyRequests = fmt.Errorf("too many requests")

	// 502 Bad Gateway
	ErrUpstreamUnavailable = fmt.Errorf("store API is unavailable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError — ошибка пользовательского ввода. Message показывается пользователю как есть.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func NewValidationError(field string, message string, err error) *ValidationError {
	if message == "" {
		message = err.Error()
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (v *ValidationError) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func (v *ValidationError) Unwrap() error {
	return v.Err
}

// APIError — отказ внешнего Store API. Message берётся из тела ответа, если он там есть.
type APIError struct {
	StatusCode int
	Message    string
}

func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

func (a *APIError) Error() string {
	return fmt.Sprintf("store api responded %d: %s", a.StatusCode, a.Message)
}

// ParseError — ответ внешнего API не прошёл проверку по JSON-схеме.
type ParseError struct {
	Resource string
	Reasons  []string
}

func NewParseError(resource string, reasons []string) *ParseError {
	return &ParseError{Resource: resource, Reasons: reasons}
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", p.Resource, p.Reasons)
}

// UserMessage достаёт из цепочки ошибок сообщение, пригодное для показа пользователю.
// Возвращает fallback, если такого сообщения нет.
func UserMessage(err error, fallback string) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
