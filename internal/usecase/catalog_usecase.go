package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const msgProductsUnavailable = "Could not load products, please try again"

// CatalogUseCase обслуживает страницу поиска: запрос в Store API с кэшем и клиентские фильтры.
type CatalogUseCase struct {
	api       ProductCatalogAPI
	cacheRepo CatalogCacheRepository
	logger    logger.Logger
}

func NewCatalogUC(api ProductCatalogAPI, cacheRepo CatalogCacheRepository, logger logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		api:       api,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// Search загружает товары по основному критерию и применяет фильтры.
// Ошибка Store API не прерывает запрос: страница показывает пустой список и предупреждение.
func (c *CatalogUseCase) Search(ctx context.Context, req *SearchQuery) (*SearchResult, error) {
	const op = "CatalogUseCase.Search"

	res := &SearchResult{
		Products:      []domain.Product{},
		Filters:       req.Filters,
		ActiveFilters: req.Filters.ActiveCount(),
	}

	query, ok := req.Primary()
	if !ok {
		return res, nil
	}

	products, err := c.fetch(ctx, query)
	if err != nil {
		c.logger.Warnf("Error fetching products: %v", e.Wrap(op, err))
		res.Warning = msgProductsUnavailable
		return res, nil
	}

	res.Fetched = len(products)
	res.Products = domain.Apply(products, req.Filters)
	return res, nil
}

// Suggest — подсказки поиска в шапке сайта: поиск по имени без фильтров.
func (c *CatalogUseCase) Suggest(ctx context.Context, name string, limit int) ([]domain.Product, error) {
	const op = "CatalogUseCase.Suggest"

	query, ok := (&SearchQuery{Name: name}).Primary()
	if !ok {
		return []domain.Product{}, nil
	}

	products, err := c.fetch(ctx, query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// fetch ищет ответ в кэше, при промахе идёт в Store API и кэширует результат в фоне.
func (c *CatalogUseCase) fetch(ctx context.Context, query CatalogQuery) ([]domain.Product, error) {
	const op = "CatalogUseCase.fetch"

	if c.cacheRepo != nil {
		cached, err := c.cacheRepo.GetProducts(ctx, query)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, e.ErrCacheMiss) {
			c.logger.Warnf("Catalog cache lookup failed: %v", e.Wrap(op, err))
		}
	}

	products, err := c.callAPI(ctx, query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if c.cacheRepo != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetProducts(bgCtx, query, products); err != nil {
				c.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return products, nil
}

func (c *CatalogUseCase) callAPI(ctx context.Context, query CatalogQuery) ([]domain.Product, error) {
	switch query.Kind {
	case QueryByName:
		return c.api.SearchByName(ctx, query.Value)
	case QueryByCategory:
		return c.api.GetByCategory(ctx, query.Value)
	case QueryByBrand:
		return c.api.SearchByBrand(ctx, query.Value)
	case QueryByPrice:
		price, err := parsePrice(query.Value)
		if err != nil {
			return nil, err
		}
		return c.api.SearchByPrice(ctx, price)
	default:
		return nil, e.ErrStatusBadRequest
	}
}
