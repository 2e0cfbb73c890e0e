package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

const maxBodySize = 4 << 20

// Client — HTTP-клиент внешнего Store API.
// Запросы каталога повторяются с экспоненциальной задержкой, размещение заказа выполняется ровно один раз.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    jitter.Backoff
	maxRetries int
	logger     logger.Logger
}

func NewClient(cfg *cfg.StoreAPICfg, logger logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		backoff:    jitter.DefaultBackoff(),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// WithBackoff заменяет параметры ожидания между повторами.
func (c *Client) WithBackoff(b jitter.Backoff) *Client {
	c.backoff = b
	return c
}

func (c *Client) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	return c.getProducts(ctx, "/products/search", url.Values{"name": {name}})
}

func (c *Client) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return c.getProducts(ctx, "/products/category/"+url.PathEscape(category), nil)
}

func (c *Client) SearchByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	return c.getProducts(ctx, "/products/brand", url.Values{"brand": {brand}})
}

func (c *Client) SearchByPrice(ctx context.Context, price decimal.Decimal) ([]domain.Product, error) {
	return c.getProducts(ctx, "/products/price", url.Values{"price": {price.String()}})
}

// PlaceOrder отправляет заказ с координатами доставки и токеном пользователя.
// Возвращает сообщение Store API для показа пользователю, если оно есть.
func (c *Client) PlaceOrder(ctx context.Context, token string, req *domain.OrderRequest, lat, lng float64) (string, error) {
	const op = "Client.PlaceOrder"

	payload, err := json.Marshal(toOrderRequestDTO(req))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	query := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/orders", query), bytes.NewReader(payload))
	if err != nil {
		return "", e.Wrap(op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	body, err := c.do(httpReq)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	if err := validateJSONSchema("order", orderResponseLoader, body); err != nil {
		c.logger.Warnf("Order accepted but response is malformed: %v", err)
		return "", nil
	}

	var res orderResponseDTO
	if err := json.Unmarshal(body, &res); err != nil {
		return "", nil
	}

	return res.Message, nil
}

// getProducts выполняет GET с повторами при сетевых ошибках и ответах 5xx.
func (c *Client) getProducts(ctx context.Context, path string, query url.Values) ([]domain.Product, error) {
	const op = "Client.getProducts"

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warnf("store api %s failed, retrying (attempt %d): %v", path, attempt, lastErr)
			if err := c.backoff.Sleep(ctx, attempt-1); err != nil {
				return nil, e.Wrap(op, err)
			}
		}

		products, err := c.fetchProducts(ctx, path, query)
		if err == nil {
			return products, nil
		}
		if !retryable(err) {
			return nil, e.Wrap(op, err)
		}
		lastErr = err
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", c.maxRetries+1, lastErr))
}

func (c *Client) fetchProducts(ctx context.Context, path string, query url.Values) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if err := validateJSONSchema("product list", productListLoader, body); err != nil {
		return nil, err
	}

	var dtos []productDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, e.NewParseError("product list", []string{err.Error()})
	}

	products := make([]domain.Product, 0, len(dtos))
	for i := range dtos {
		p, err := toDomainProduct(&dtos[i])
		if err != nil {
			return nil, e.NewParseError("product", []string{err.Error()})
		}
		products = append(products, p)
	}

	return products, nil
}

// do выполняет запрос и возвращает тело успешного ответа.
// Ответ не 2xx превращается в *e.APIError, сетевая ошибка в e.ErrUpstreamUnavailable.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", e.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, e.NewAPIError(resp.StatusCode, errorMessage(resp.StatusCode, body))
	}

	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// errorMessage достаёт message или error из тела ответа, иначе текст статуса.
func errorMessage(status int, body []byte) string {
	var res errorResponseDTO
	if err := json.Unmarshal(body, &res); err == nil {
		if res.Message != "" {
			return res.Message
		}
		if res.Error != "" {
			return res.Error
		}
	}
	return http.StatusText(status)
}

func retryable(err error) bool {
	var apiErr *e.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return errors.Is(err, e.ErrUpstreamUnavailable)
}
