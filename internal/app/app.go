package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/infrastructure/geo"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	"github.com/DRSN-tech/storefront/internal/infrastructure/session"
	"github.com/DRSN-tech/storefront/internal/infrastructure/storeapi"
	"github.com/DRSN-tech/storefront/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 10 * time.Second
	outboxCapacity     = 256
	topicEnsureTimeout = 10 * time.Second
)

// App — корень композиции: владеет CartStore, клиентами внешних систем и HTTP-сервером.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	outbox  *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(2 * time.Second),
	}

	readiness := make(map[string]v1Http.ReadinessCheck)

	var (
		cartRepo  usecase.CartRepository
		cacheRepo usecase.CatalogCacheRepository
	)

	if cfg.Cart.Store == config.CartStoreRedis {
		redisClient := clients.NewRedisClient(cfg.Redis)
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer redisCancel()
		if err := redisClient.Ping(redisCtx); err != nil {
			logger.Errorf(err, "failed to connect to redis")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("redis", redisClient.Close)
		readiness["redis"] = redisClient.Ping

		cartRepo = redis.NewCartRepo(redisClient, cfg.Redis, logger)
		cacheRepo = redis.NewCacheRepo(redisClient, cfg.Redis, logger)
	} else {
		logger.Warnf("CART_STORE=memory: carts are lost on restart and catalog responses are not cached")
		cartRepo = memory.NewCartRepo()
	}

	blogRepo, err := a.initBlogRepo()
	if err != nil {
		return nil, err
	}

	var producer usecase.EventProducer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafka.NewProducer(logger, cfg.Kafka)
		if err != nil {
			logger.Errorf(err, "failed to initialize kafka producer")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if err := kafkaProducer.EnsureTopic(topicEnsureTimeout); err != nil {
			logger.Warnf("Kafka topic %s is not ensured: %v", cfg.Kafka.Topic, err)
		}
		a.closer.AddCloser("kafka producer", kafkaProducer.Close)

		a.outbox = kafka.NewOutboxWorker(kafkaProducer, logger, outboxCapacity)
		a.closer.Add("order outbox", a.outbox.Stop)
		producer = a.outbox
	} else {
		logger.Infof("KAFKA_BROKERS is empty, order events are not published")
	}

	var locator usecase.Locator
	if cfg.Geo.LookupURL != "" {
		locator = geo.NewIPLocator(cfg.Geo, logger)
	}

	storeAPI := storeapi.NewClient(cfg.StoreAPI, logger)

	cartStore := usecase.NewCartStore(cartRepo, cfg.Cart.Pricing, logger)
	catalogUC := usecase.NewCatalogUC(storeAPI, cacheRepo, logger)
	checkoutUC := usecase.NewCheckoutUC(cartStore, storeAPI, locator, producer, cfg.Cart.Pricing, cfg.Geo.Timeout, logger)
	blogUC := usecase.NewBlogUC(blogRepo, logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(v1Http.Deps{
		CatalogUC:      catalogUC,
		CartUC:         cartStore,
		CheckoutUC:     checkoutUC,
		BlogUC:         blogUC,
		Sessions:       v1Http.NewSessionMiddleware(session.NewJWTDecoder(), cfg.Http.SecureCookies, logger),
		CheckoutLimit:  v1Http.NewRateLimiter(cfg.Checkout.RatePerMinute, cfg.Checkout.Burst),
		AllowedOrigins: cfg.Http.AllowedOrigins,
		Readiness:      readiness,
	})

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	// HTTP-сервер регистрируется последним, чтобы закрыться первым (LIFO).
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// initBlogRepo подключает MinIO, если задан MINIO_ENDPOINT. Без него блог отдаёт записи по умолчанию.
func (a *App) initBlogRepo() (usecase.BlogRepository, error) {
	if a.cfg.Minio.MinioEndpoint == "" {
		a.logger.Infof("MINIO_ENDPOINT is empty, serving default blog posts")
		return nil, nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s3Repo.NewBlogRepo(minioClient, a.cfg.Minio, a.logger), nil
}

// Run запускает сервер и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.outbox != nil {
		a.outbox.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}
