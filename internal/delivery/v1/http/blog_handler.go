package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type BlogHandler struct {
	blogUsecase usecase.BlogUC
	logger      logger.Logger
}

func NewBlogHandler(blogUsecase usecase.BlogUC, logger logger.Logger) *BlogHandler {
	return &BlogHandler{blogUsecase: blogUsecase, logger: logger}
}

func (b *BlogHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.blogUsecase.ListPosts(r.Context())
	if err != nil {
		b.logger.Errorf(err, "failed to list blog posts")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"posts": toArrBlogPostResponse(posts),
	})
}
