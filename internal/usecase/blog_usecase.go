package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type BlogUseCase struct {
	blogRepo BlogRepository
	logger   logger.Logger
}

func NewBlogUC(blogRepo BlogRepository, logger logger.Logger) *BlogUseCase {
	return &BlogUseCase{blogRepo: blogRepo, logger: logger}
}

// ListPosts возвращает записи блога, новые сначала.
// Если хранилище недоступно или пусто, отдаются записи по умолчанию.
func (b *BlogUseCase) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	const op = "BlogUseCase.ListPosts"

	posts := domain.DefaultBlogPosts()
	if b.blogRepo != nil {
		stored, err := b.blogRepo.ListPosts(ctx)
		switch {
		case err == nil && len(stored) > 0:
			posts = stored
		case err != nil && !errors.Is(err, e.ErrObjectNotFound):
			b.logger.Warnf("Failed to load blog posts, serving defaults: %v", e.Wrap(op, err))
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	return posts, nil
}
