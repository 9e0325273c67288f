// Package api contains the gateway to the blog platform's HTTP API: one
// stateless function per endpoint, translating typed requests into HTTP calls
// and HTTP responses into typed values or errors.
package api

import (
	"context"

	"github.com/apetrukhin/blogctl/internal/client/models"
)

// Client is the remote API surface consumed by the session store and the CLI.
//
// Functions taking a token attach it as a bearer credential; an empty token
// sends the request anonymously where the endpoint allows it. No function
// retries or caches.
type Client interface {
	Register(ctx context.Context, payload models.RegisterPayload) (models.AuthResponse, error)
	Login(ctx context.Context, payload models.LoginPayload) (models.AuthResponse, error)
	FetchProfile(ctx context.Context, token string) (models.User, error)
	UpdateProfile(ctx context.Context, token string, payload models.ProfileUpdatePayload) (models.User, error)

	ListArticles(ctx context.Context, token string) ([]models.Article, error)
	GetArticle(ctx context.Context, id int64, token string) (models.Article, error)
	// GetArticlePreview fetches an article for editing without counting a view.
	GetArticlePreview(ctx context.Context, id int64, token string) (models.Article, error)
	CreateArticle(ctx context.Context, token string, payload models.ArticlePayload) (models.Article, error)
	UpdateArticle(ctx context.Context, id int64, token string, payload models.ArticlePayload) (models.Article, error)
	DeleteArticle(ctx context.Context, id int64, token string) error
	ToggleLike(ctx context.Context, id int64, token string, like bool) (models.LikeResponse, error)
}
