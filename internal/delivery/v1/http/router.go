package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// ReadinessCheck проверяет доступность зависимости для /readyz.
type ReadinessCheck func(ctx context.Context) error

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Deps — всё, что нужно роутеру для регистрации обработчиков.
type Deps struct {
	CatalogUC      usecase.CatalogUC
	CartUC         usecase.CartUC
	CheckoutUC     usecase.CheckoutUC
	BlogUC         usecase.BlogUC
	Sessions       *SessionMiddleware
	CheckoutLimit  *RateLimiter
	AllowedOrigins []string
	Readiness      map[string]ReadinessCheck
}

func (r *Router) Init(deps Deps) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(r.requestLogger)
	r.router.Use(middleware.Recoverer)
	r.router.Use(cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.router.Get("/healthz", liveness)
	r.router.Get("/readyz", r.readiness(deps.Readiness))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(deps.Sessions.Handler)

		registerCatalogRoutes(v1, NewCatalogHandler(deps.CatalogUC, r.logger))
		registerCartRoutes(v1, NewCartHandler(deps.CartUC, r.logger))
		registerCheckoutRoutes(v1, NewCheckoutHandler(deps.CheckoutUC, r.logger), deps.CheckoutLimit)
		registerBlogRoutes(v1, NewBlogHandler(deps.BlogUC, r.logger))
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/catalog", func(cr chi.Router) {
		cr.Get("/search", h.search)
		cr.Get("/suggest", h.suggest)
		cr.Get("/facets", h.facets)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(cr chi.Router) {
		cr.Get("/", h.get)
		cr.Delete("/", h.clear)
		cr.Get("/events", h.events)
		cr.Post("/items", h.addItem)
		cr.Patch("/items/{productID}", h.updateQuantity)
		cr.Delete("/items/{productID}", h.removeItem)
	})
}

func registerCheckoutRoutes(router chi.Router, h *CheckoutHandler, limiter *RateLimiter) {
	router.Route("/checkout", func(cr chi.Router) {
		cr.Get("/state", h.state)
		cr.Get("/region-warning", h.regionWarning)
		cr.With(limiter.Handler).Post("/", h.placeOrder)
	})
}

func registerBlogRoutes(router chi.Router, h *BlogHandler) {
	router.Get("/blog/posts", h.listPosts)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) readiness(checks map[string]ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				r.logger.Warnf("readiness check %s failed: %v", name, err)
				result[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}

		WriteSuccess(w, status, result)
	}
}

// requestLogger пишет метод, путь, статус и длительность каждого запроса.
func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		r.logger.Debugf("%s %s %d %s request_id=%s",
			req.Method, req.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}
