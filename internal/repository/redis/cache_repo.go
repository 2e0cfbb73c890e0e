package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует ответы Store API на запросы каталога.
type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает закэшированный ответ на запрос или e.ErrCacheMiss.
// Повреждённая запись удаляется и считается промахом.
func (r *CacheRepo) GetProducts(ctx context.Context, query usecase.CatalogQuery) ([]domain.Product, error) {
	key := query.CacheKey()

	data, err := r.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, e.ErrCacheMiss
		}
		r.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := r.unmarshalProductsFromCache(data)
	if err != nil {
		r.logger.Warnf("Redis unmarshal failed, key: %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		if err := r.client.Client.Del(ctx, key).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, e.ErrCacheMiss
	}

	return products, nil
}

// SetProducts кэширует ответ на запрос с TTL каталога.
func (r *CacheRepo) SetProducts(ctx context.Context, query usecase.CatalogQuery, products []domain.Product) error {
	data, err := json.Marshal(converter.ToArrProductRedisModel(products))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, query.CacheKey(), data, r.cfg.CatalogTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// unmarshalProductsFromCache десериализует JSON из кэша в товары
func (r *CacheRepo) unmarshalProductsFromCache(data []byte) ([]domain.Product, error) {
	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, err
	}

	return converter.ToArrDomainProduct(models)
}
