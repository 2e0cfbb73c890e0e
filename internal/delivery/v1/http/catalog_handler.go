package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	defaultSuggestLimit = 8
	maxSuggestLimit     = 20
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// search — страница поиска.
// Основной запрос: name, category, brand, price. Фильтры: categories, brands, minPrice, maxPrice,
// rating, inStock, а также toggleCategory, toggleBrand и clear поверх текущего состояния.
func (c *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := c.catalogUsecase.Search(r.Context(), req)
	if err != nil {
		c.logger.Errorf(err, "catalog search failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSearchResponse(res))
}

// suggest — подсказки поиска в шапке сайта.
func (c *CatalogHandler) suggest(w http.ResponseWriter, r *http.Request) {
	limit := defaultSuggestLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteError(w, e.NewValidationError("limit", "", e.ErrStatusBadRequest))
			return
		}
		limit = min(n, maxSuggestLimit)
	}

	products, err := c.catalogUsecase.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		c.logger.Warnf("suggest failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products": toArrProductResponse(products),
	})
}

func (c *CatalogHandler) facets(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, FacetsResponse{
		Categories: domain.CategoryOptions,
		Brands:     domain.BrandOptions,
		MaxPrice:   money(domain.DefaultMaxPrice),
	})
}

func parseSearchQuery(q url.Values) (*usecase.SearchQuery, error) {
	req := &usecase.SearchQuery{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}

	if v := q.Get("price"); v != "" {
		price, err := parsePrice(v)
		if err != nil {
			return nil, e.NewValidationError("price", "", err)
		}
		req.Price = &price
	}

	filters, err := parseFilters(q, req)
	if err != nil {
		return nil, err
	}
	req.Filters = filters

	return req, nil
}

// parseFilters строит состояние фильтров: значения по умолчанию из основного запроса,
// затем явные параметры фильтров, затем переключатели.
func parseFilters(q url.Values, req *usecase.SearchQuery) (domain.FilterState, error) {
	f := domain.DefaultFilterState(req.Category, req.Brand, req.Price)

	if _, ok := q["categories"]; ok {
		f.Categories = splitValues(q["categories"])
	}
	if _, ok := q["brands"]; ok {
		f.Brands = splitValues(q["brands"])
	}

	if v := q.Get("minPrice"); v != "" {
		minPrice, err := parsePrice(v)
		if err != nil {
			return f, e.NewValidationError("minPrice", "", err)
		}
		f.PriceRange.Min = minPrice
	}
	if v := q.Get("maxPrice"); v != "" {
		maxPrice, err := parsePrice(v)
		if err != nil {
			return f, e.NewValidationError("maxPrice", "", err)
		}
		f.PriceRange.Max = &maxPrice
	}
	if f.PriceRange.Max != nil && f.PriceRange.Min.GreaterThan(*f.PriceRange.Max) {
		return f, e.NewValidationError("minPrice", "minPrice must not exceed maxPrice", e.ErrInvalidPrice)
	}

	if v := q.Get("rating"); v != "" {
		rating, err := parseRating(v)
		if err != nil {
			return f, e.NewValidationError("rating", "", err)
		}
		f.MinRating = rating
	}

	if v := q.Get("inStock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return f, e.NewValidationError("inStock", "", e.ErrStatusBadRequest)
		}
		f.InStockOnly = inStock
	}

	if clear, _ := strconv.ParseBool(q.Get("clear")); clear {
		f = f.Cleared()
	}
	for _, category := range q["toggleCategory"] {
		f = f.ToggleCategory(category)
	}
	for _, brand := range q["toggleBrand"] {
		f = f.ToggleBrand(brand)
	}

	return f, nil
}

// splitValues принимает как повторяющиеся параметры, так и списки через запятую.
func splitValues(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
