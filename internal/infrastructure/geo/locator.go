package geo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const ipPlaceholder = "{ip}"

// IPLocator определяет координаты покупателя по IP через внешний сервис геолокации.
type IPLocator struct {
	lookupURL  string
	httpClient *http.Client
	logger     logger.Logger
}

func NewIPLocator(cfg *cfg.GeoCfg, logger logger.Logger) *IPLocator {
	return &IPLocator{
		lookupURL:  cfg.LookupURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// lookupResponse покрывает распространённые форматы ответа: ip-api (lat/lon) и ipapi (latitude/longitude).
type lookupResponse struct {
	Status    string   `json:"status"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Locate никогда не ждёт дольше timeout. Неудача выражается статусом результата, не ошибкой.
func (l *IPLocator) Locate(ctx context.Context, clientIP string, timeout time.Duration) domain.LocationResult {
	if l.lookupURL == "" {
		return domain.UnresolvedLocation(domain.LocationUnsupported)
	}

	ip := net.ParseIP(strings.TrimSpace(clientIP))
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return domain.UnresolvedLocation(domain.LocationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := strings.ReplaceAll(l.lookupURL, ipPlaceholder, url.PathEscape(ip.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		l.logger.Warnf("invalid GEO_LOOKUP_URL: %v", err)
		return domain.UnresolvedLocation(domain.LocationUnsupported)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.UnresolvedLocation(domain.LocationTimedOut)
		}
		return domain.UnresolvedLocation(domain.LocationUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.UnresolvedLocation(domain.LocationDenied)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.UnresolvedLocation(domain.LocationUnavailable)
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.UnresolvedLocation(domain.LocationTimedOut)
		}
		return domain.UnresolvedLocation(domain.LocationUnavailable)
	}

	return body.result()
}

func (r *lookupResponse) result() domain.LocationResult {
	if r.Status != "" && !strings.EqualFold(r.Status, "success") {
		return domain.UnresolvedLocation(domain.LocationUnavailable)
	}

	lat, lng := r.Lat, r.Lon
	if lat == nil || lng == nil {
		lat, lng = r.Latitude, r.Longitude
	}
	if lat == nil || lng == nil {
		return domain.UnresolvedLocation(domain.LocationUnavailable)
	}

	return domain.ResolvedLocation(*lat, *lng)
}
