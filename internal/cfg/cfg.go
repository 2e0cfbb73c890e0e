package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Хранилища корзин
const (
	CartStoreRedis  = "redis"
	CartStoreMemory = "memory"
)

type Config struct {
	Http     *HTTPConfig
	Redis    *RedisCfg
	Minio    *MinIOCfg
	Kafka    *KafkaCfg
	StoreAPI *StoreAPICfg
	Geo      *GeoCfg
	Cart     *CartCfg
	Checkout *CheckoutCfg
}

type HTTPConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	SecureCookies  bool
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	CatalogTTL  time.Duration // Время жизни закэшированных ответов каталога
	CartTTL     time.Duration // Время жизни корзины сессии
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio, если пусто, блог из записей по умолчанию
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	BlogManifestKey   string        // Ключ JSON-манифеста записей блога
	ImageURLTTL       time.Duration // Время жизни presigned-ссылок на изображения
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string // Пустой список отключает публикацию событий
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type StoreAPICfg struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int // Только для идемпотентных GET-запросов каталога
}

type GeoCfg struct {
	LookupURL string // Шаблон URL IP-геолокации, {ip} заменяется адресом клиента
	Timeout   time.Duration
}

type CartCfg struct {
	Store   string
	Pricing domain.Pricing
}

type CheckoutCfg struct {
	RatePerMinute int
	Burst         int
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Переменные из .env подхватываются, если файл существует.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to read .env: %v", err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storeAPI, err := loadStoreAPICfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	geo, err := loadGeoCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cart, err := loadCartCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	checkout, err := loadCheckoutCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:     http,
		Redis:    redis,
		Minio:    minio,
		Kafka:    kafka,
		StoreAPI: storeAPI,
		Geo:      geo,
		Cart:     cart,
		Checkout: checkout,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort           = "8080"
		defaultReadTimeout    = 5 * time.Second
		defaultWriteTimeout   = 15 * time.Second
		defaultIdleTimeout    = 60 * time.Second
		defaultAllowedOrigins = "http://localhost:5173"
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	secureCookies, err := parseBoolEnv("SECURE_COOKIES", false)
	if err != nil {
		log.Errorf(err, "invalid SECURE_COOKIES")
		return nil, err
	}

	return &HTTPConfig{
		Port:           getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		SecureCookies:  secureCookies,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCatalogTTL   = 3 * time.Minute
		defaultCartTTL      = 7 * 24 * time.Hour
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	catalogTTL, err := parseDurationEnv("CATALOG_CACHE_TTL", defaultCatalogTTL)
	if err != nil {
		log.Errorf(err, "invalid CATALOG_CACHE_TTL")
		return nil, err
	}

	cartTTL, err := parseDurationEnv("CART_TTL", defaultCartTTL)
	if err != nil {
		log.Errorf(err, "invalid CART_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		CatalogTTL:  catalogTTL,
		CartTTL:     cartTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL      = false
		defaultBucket      = "storefront"
		defaultManifestKey = "blog/posts.json"
		defaultImageURLTTL = time.Hour
	)

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", defaultUseSSL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	imageURLTTL, err := parseDurationEnv("BLOG_IMAGE_URL_TTL", defaultImageURLTTL)
	if err != nil {
		log.Errorf(err, "invalid BLOG_IMAGE_URL_TTL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnv("MINIO_ENDPOINT"),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		BlogManifestKey:   getEnvOrDefault("BLOG_MANIFEST_KEY", defaultManifestKey),
		ImageURLTTL:       imageURLTTL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "storefront.orders"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           splitList(getEnv("KAFKA_BROKERS")),
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadStoreAPICfg(log logger.Logger) (*StoreAPICfg, error) {
	const (
		defaultTimeout    = 10 * time.Second
		defaultMaxRetries = 3
	)

	baseURL := strings.TrimRight(getEnv("STORE_API_URL"), "/")
	if baseURL == "" {
		err := fmt.Errorf("STORE_API_URL is required")
		log.Errorf(err, "missing STORE_API_URL")
		return nil, err
	}

	timeout, err := parseDurationEnv("STORE_API_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid STORE_API_TIMEOUT")
		return nil, err
	}

	maxRetries, err := parseIntEnv("STORE_API_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid STORE_API_MAX_RETRIES")
		return nil, err
	}

	return &StoreAPICfg{
		BaseURL:    baseURL,
		Timeout:    timeout,
		MaxRetries: maxRetries,
	}, nil
}

func loadGeoCfg(log logger.Logger) (*GeoCfg, error) {
	const defaultTimeout = 5 * time.Second

	timeout, err := parseDurationEnv("GEO_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid GEO_TIMEOUT")
		return nil, err
	}

	return &GeoCfg{
		LookupURL: getEnv("GEO_LOOKUP_URL"),
		Timeout:   timeout,
	}, nil
}

func loadCartCfg(log logger.Logger) (*CartCfg, error) {
	defaults := domain.DefaultPricing()

	store := getEnvOrDefault("CART_STORE", CartStoreRedis)
	if store != CartStoreRedis && store != CartStoreMemory {
		err := fmt.Errorf("CART_STORE must be %q or %q, got %q", CartStoreRedis, CartStoreMemory, store)
		log.Errorf(err, "invalid CART_STORE")
		return nil, err
	}

	taxRate, err := parseDecimalEnv("TAX_RATE", defaults.TaxRate)
	if err != nil {
		log.Errorf(err, "invalid TAX_RATE")
		return nil, err
	}

	threshold, err := parseDecimalEnv("FREE_SHIPPING_THRESHOLD", defaults.FreeShippingThreshold)
	if err != nil {
		log.Errorf(err, "invalid FREE_SHIPPING_THRESHOLD")
		return nil, err
	}

	fee, err := parseDecimalEnv("FLAT_SHIPPING_FEE", defaults.FlatShippingFee)
	if err != nil {
		log.Errorf(err, "invalid FLAT_SHIPPING_FEE")
		return nil, err
	}

	return &CartCfg{
		Store: store,
		Pricing: domain.Pricing{
			TaxRate:               taxRate,
			FreeShippingThreshold: threshold,
			FlatShippingFee:       fee,
		},
	}, nil
}

func loadCheckoutCfg() (*CheckoutCfg, error) {
	const (
		defaultRatePerMinute = 5
		defaultBurst         = 2
	)

	rate, err := parseIntEnv("CHECKOUT_RATE_PER_MINUTE", defaultRatePerMinute)
	if err != nil {
		return nil, e.Wrap("CHECKOUT_RATE_PER_MINUTE", err)
	}

	burst, err := parseIntEnv("CHECKOUT_BURST", defaultBurst)
	if err != nil {
		return nil, e.Wrap("CHECKOUT_BURST", err)
	}

	return &CheckoutCfg{
		RatePerMinute: rate,
		Burst:         burst,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	return strconv.ParseBool(v)
}

// parseDecimalEnv считывает неотрицательное десятичное значение (деньги, ставки).
func parseDecimalEnv(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return d, nil
}

// splitList разбирает список через запятую, пропуская пустые элементы.
func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
