package geo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
)

const publicIP = "8.8.8.8"

func newTestLocator(t *testing.T, handler http.HandlerFunc) *IPLocator {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewIPLocator(&cfg.GeoCfg{LookupURL: srv.URL + "/json/{ip}", Timeout: time.Second}, logger.NewNop())
}

func TestIPLocator_Locate(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus domain.LocationStatus
		wantLat    float64
		wantLng    float64
	}{
		{
			name:       "ip-api format",
			status:     http.StatusOK,
			body:       `{"status": "success", "lat": 25.59, "lon": 85.13}`,
			wantStatus: domain.LocationResolved,
			wantLat:    25.59,
			wantLng:    85.13,
		},
		{
			name:       "ipapi format",
			status:     http.StatusOK,
			body:       `{"latitude": 25.6, "longitude": 85.1}`,
			wantStatus: domain.LocationResolved,
			wantLat:    25.6,
			wantLng:    85.1,
		},
		{
			name:       "lookup failed",
			status:     http.StatusOK,
			body:       `{"status": "fail", "message": "reserved range"}`,
			wantStatus: domain.LocationUnavailable,
		},
		{
			name:       "no coordinates",
			status:     http.StatusOK,
			body:       `{"status": "success"}`,
			wantStatus: domain.LocationUnavailable,
		},
		{
			name:       "garbage",
			status:     http.StatusOK,
			body:       `not json`,
			wantStatus: domain.LocationUnavailable,
		},
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			body:       `{}`,
			wantStatus: domain.LocationDenied,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{}`,
			wantStatus: domain.LocationDenied,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantStatus: domain.LocationUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/json/"+publicIP, r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			res := l.Locate(context.Background(), publicIP, time.Second)
			assert.Equal(t, tt.wantStatus, res.Status)

			lat, lng := res.Coordinates()
			assert.Equal(t, tt.wantLat, lat)
			assert.Equal(t, tt.wantLng, lng)
		})
	}
}

func TestIPLocator_Timeout(t *testing.T) {
	l := newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	res := l.Locate(context.Background(), publicIP, 50*time.Millisecond)

	assert.Equal(t, domain.LocationTimedOut, res.Status)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIPLocator_SkipsLookup(t *testing.T) {
	tests := []struct {
		name       string
		lookupURL  string
		ip         string
		wantStatus domain.LocationStatus
	}{
		{name: "not configured", lookupURL: "", ip: publicIP, wantStatus: domain.LocationUnsupported},
		{name: "loopback", lookupURL: "set", ip: "127.0.0.1", wantStatus: domain.LocationUnavailable},
		{name: "private", lookupURL: "set", ip: "192.168.1.10", wantStatus: domain.LocationUnavailable},
		{name: "unspecified", lookupURL: "set", ip: "::", wantStatus: domain.LocationUnavailable},
		{name: "not an ip", lookupURL: "set", ip: "localhost", wantStatus: domain.LocationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
			defer srv.Close()

			lookupURL := ""
			if tt.lookupURL != "" {
				lookupURL = srv.URL + "/{ip}"
			}
			l := NewIPLocator(&cfg.GeoCfg{LookupURL: lookupURL}, logger.NewNop())

			res := l.Locate(context.Background(), tt.ip, time.Second)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.False(t, called)
		})
	}
}
