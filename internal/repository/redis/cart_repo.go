package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// CartRepo хранит корзину сессии одним JSON-снимком. TTL продлевается при каждом сохранении.
type CartRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCartRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CartRepo {
	return &CartRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (r *CartRepo) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.NewCart(), nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CartRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		r.logger.Warnf("Corrupted cart snapshot, session_id: %s: %v", sessionID, e.Wrap(whereami.WhereAmI(), err))
		return domain.NewCart(), nil
	}

	cart, err := converter.ToDomainCart(&model)
	if err != nil {
		r.logger.Warnf("Corrupted cart snapshot, session_id: %s: %v", sessionID, e.Wrap(whereami.WhereAmI(), err))
		return domain.NewCart(), nil
	}

	return cart, nil
}

func (r *CartRepo) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	if cart.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(converter.ToCartRedisModel(cart))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, cartKey(sessionID), data, r.cfg.CartTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *CartRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// cartKey возвращает Redis-ключ корзины сессии
func cartKey(sessionID string) string {
	return "cart:" + sessionID
}
