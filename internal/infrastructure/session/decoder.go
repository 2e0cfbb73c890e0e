package session

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

// JWTDecoder извлекает пользователя из токена Store API без проверки подписи.
// Подпись проверяет Store API при размещении заказа, здесь токен нужен только для отображения и id пользователя.
type JWTDecoder struct {
	parser *jwt.Parser
}

func NewJWTDecoder() *JWTDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

// Decode разбирает токен. id пользователя берётся из User.id, затем userId, затем sub.
func (d *JWTDecoder) Decode(token string) (*domain.Identity, error) {
	const op = "JWTDecoder.Decode"

	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, e.Wrap(op, e.ErrNotLoggedIn)
	}

	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrNotLoggedIn, err))
	}

	identity := &domain.Identity{Token: token}

	if user, ok := claims["User"].(map[string]interface{}); ok {
		identity.UserID = stringClaim(user, "id")
		identity.Name = stringClaim(user, "name")
		identity.Email = stringClaim(user, "email")
	}
	if identity.UserID == "" {
		identity.UserID = stringClaim(claims, "userId")
	}
	if identity.UserID == "" {
		identity.UserID = stringClaim(claims, "sub")
	}
	if identity.Name == "" {
		identity.Name = stringClaim(claims, "name")
	}
	if identity.Email == "" {
		identity.Email = stringClaim(claims, "email")
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		identity.ExpiresAt = &t
	}

	if identity.UserID == "" {
		return nil, e.Wrap(op, fmt.Errorf("%w: token has no user id", e.ErrNotLoggedIn))
	}

	return identity, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
