package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	SessionCookieName = "sf_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

type ctxKey int

const (
	sessionIDKey ctxKey = iota
	identityKey
)

// SessionMiddleware выдаёт cookie сессии, если её нет, и извлекает пользователя из Authorization.
// Недействительный токен не отклоняет запрос: пользователь просто считается не вошедшим.
type SessionMiddleware struct {
	decoder       usecase.SessionDecoder
	secureCookies bool
	logger        logger.Logger
}

func NewSessionMiddleware(decoder usecase.SessionDecoder, secureCookies bool, logger logger.Logger) *SessionMiddleware {
	return &SessionMiddleware{decoder: decoder, secureCookies: secureCookies, logger: logger}
}

func (s *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if c, err := r.Cookie(SessionCookieName); err == nil && validSessionID(c.Value) {
			sessionID = c.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(sessionCookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   s.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)

		if token := bearerToken(r); token != "" && s.decoder != nil {
			identity, err := s.decoder.Decode(token)
			if err != nil {
				s.logger.Debugf("ignoring session token: %v", err)
			} else {
				ctx = context.WithValue(ctx, identityKey, identity)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// Identity возвращает пользователя запроса или nil, если он не вошёл.
func Identity(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return identity
}

func validSessionID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// clientIP — адрес клиента. RemoteAddr уже исправлен middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimiter ограничивает частоту запросов одной сессии.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu          sync.Mutex
	clients     map[string]*clientLimiter
	lastCleanup time.Time
}

type clientLimiter struct {
	limiter *rate.Limiter
	last    time.Time
}

// NewRateLimiter: perMinute запросов в минуту с запасом burst.
func NewRateLimiter(perMinute int, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		limit:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:       burst,
		ttl:         30 * time.Minute,
		clients:     make(map[string]*clientLimiter),
		lastCleanup: time.Now(),
	}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastCleanup) > 5*time.Minute {
		for k, c := range l.clients {
			if now.Sub(c.last) > l.ttl {
				delete(l.clients, k)
			}
		}
		l.lastCleanup = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.last = now

	return c.limiter.AllowN(now, 1)
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := SessionID(r.Context())
		if key == "" {
			key = clientIP(r)
		}
		if !l.Allow(key) {
			w.Header().Set("Retry-After", "60")
			WriteError(w, e.ErrTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
