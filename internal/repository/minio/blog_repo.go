package minio

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const manifestDateLayout = "2006-01-02"

// presigner выдаёт временные ссылки на объекты бакета.
type presigner interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// BlogRepo читает записи блога из JSON-манифеста в MinIO.
// Изображения, заданные ключом объекта, отдаются presigned-ссылками.
type BlogRepo struct {
	mc        *minio.Client
	presigner presigner
	cfg       *cfg.MinIOCfg
	logger    logger.Logger
}

func NewBlogRepo(mc *minio.Client, cfg *cfg.MinIOCfg, logger logger.Logger) *BlogRepo {
	return &BlogRepo{
		mc:        mc,
		presigner: mc,
		cfg:       cfg,
		logger:    logger,
	}
}

type manifest struct {
	Posts []manifestPost `json:"posts"`
}

type manifestPost struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Image   string `json:"image"`
	Date    string `json:"date"`
}

// ListPosts возвращает записи манифеста. Если манифеста нет, возвращает e.ErrObjectNotFound.
func (b *BlogRepo) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	obj, err := b.mc.GetObject(ctx, b.cfg.BucketName, b.cfg.BlogManifestKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapObjectErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapObjectErr(err)
	}

	return b.decodePosts(ctx, data)
}

// decodePosts разбирает манифест. Записи с некорректной датой или без заголовка пропускаются.
func (b *BlogRepo) decodePosts(ctx context.Context, data []byte) ([]domain.BlogPost, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.NewParseError(b.cfg.BlogManifestKey, []string{err.Error()}))
	}

	posts := make([]domain.BlogPost, 0, len(m.Posts))
	for _, p := range m.Posts {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}

		date, err := time.Parse(manifestDateLayout, p.Date)
		if err != nil {
			b.logger.Warnf("Skipping blog post %q with invalid date %q", p.Title, p.Date)
			continue
		}

		posts = append(posts, domain.BlogPost{
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			ImageURL: b.imageURL(ctx, p.Image),
			Date:     date,
		})
	}

	return posts, nil
}

// imageURL оставляет абсолютные ссылки как есть, для ключей объектов выпускает presigned-ссылку.
func (b *BlogRepo) imageURL(ctx context.Context, image string) string {
	if image == "" || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}

	u, err := b.presigner.PresignedGetObject(ctx, b.cfg.BucketName, strings.TrimPrefix(image, "/"), b.cfg.ImageURLTTL, nil)
	if err != nil {
		b.logger.Warnf("Failed to presign blog image %s: %v", image, e.Wrap(whereami.WhereAmI(), err))
		return ""
	}

	return u.String()
}

func mapObjectErr(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return e.ErrObjectNotFound
	default:
		return e.Wrap(whereami.WhereAmI(), err)
	}
}
