package cli

import (
	"context"
	"fmt"

	"github.com/apetrukhin/blogctl/internal/client/models"
	"github.com/apetrukhin/blogctl/internal/markdown"
)

func (a *App) ListArticles(ctx context.Context) {
	articles, err := a.api.ListArticles(ctx, a.session.Token())
	if err != nil {
		fmt.Fprintf(a.out, "Could not load articles: %s\n", err)
		return
	}
	if len(articles) == 0 {
		fmt.Fprintln(a.out, "No articles yet.")
		return
	}

	for _, art := range articles {
		author := ""
		if art.Author != nil {
			author = " by " + art.Author.Username
		}
		liked := ""
		if art.ViewerLiked {
			liked = " ♥"
		}
		fmt.Fprintf(a.out, "%4d  %s%s  (%d views, %d likes%s)\n",
			art.ID, art.Title, author, art.Views, art.Likes, liked)
	}
}

func (a *App) ReadArticle(ctx context.Context, id int64) {
	art, err := a.api.GetArticle(ctx, id, a.session.Token())
	if err != nil {
		fmt.Fprintf(a.out, "Could not load article %d: %s\n", id, err)
		return
	}

	a.printArticle(art)
}

func (a *App) printArticle(art models.Article) {
	fmt.Fprintf(a.out, "\n%s\n", art.Title)
	if art.Author != nil {
		fmt.Fprintf(a.out, "by %s", art.Author.Username)
		if !art.CreatedAt.IsZero() {
			fmt.Fprintf(a.out, " · %s", art.CreatedAt.Format("2006-01-02"))
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprint(a.out, markdown.Render(art.Content, a.theme))
	liked := ""
	if art.ViewerLiked {
		liked = " (you liked this)"
	}
	fmt.Fprintf(a.out, "\n%d views · %d likes%s\n", art.Views, art.Likes, liked)
}

func (a *App) NewArticle(ctx context.Context) {
	token := a.session.Token()
	if token == "" {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	content, err := GetMultiline(a.reader, "Enter content (Markdown)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	payload, err := models.ValidateArticle(title, content)
	if err != nil {
		fmt.Fprintf(a.out, "%s\n", err)
		return
	}

	art, err := a.api.CreateArticle(ctx, token, payload)
	if err != nil {
		fmt.Fprintf(a.out, "Could not publish article: %s\n", err)
		return
	}
	fmt.Fprintf(a.out, "Published article %d: %s\n", art.ID, art.Title)
}

func (a *App) EditArticle(ctx context.Context, id int64) {
	token := a.session.Token()
	if token == "" {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	// The preview variant does not count a view against the article.
	art, err := a.api.GetArticlePreview(ctx, id, token)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load article %d: %s\n", id, err)
		return
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Enter title [%s]", art.Title), a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if title == "" {
		title = art.Title
	}
	fmt.Fprintln(a.out, "Current content:")
	fmt.Fprint(a.out, markdown.Render(art.Content, a.theme))
	content, err := GetMultiline(a.reader, "Enter new content (Markdown, empty to keep current)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if content == "" {
		content = art.Content
	}

	payload, err := models.ValidateArticle(title, content)
	if err != nil {
		fmt.Fprintf(a.out, "%s\n", err)
		return
	}

	updated, err := a.api.UpdateArticle(ctx, id, token, payload)
	if err != nil {
		fmt.Fprintf(a.out, "Could not update article: %s\n", err)
		return
	}
	fmt.Fprintf(a.out, "Updated article %d: %s\n", updated.ID, updated.Title)
}

func (a *App) DeleteArticle(ctx context.Context, id int64) {
	token := a.session.Token()
	if token == "" {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Delete article %d? (yes/no)", id), a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	if err := a.api.DeleteArticle(ctx, id, token); err != nil {
		fmt.Fprintf(a.out, "Could not delete article: %s\n", err)
		return
	}
	fmt.Fprintf(a.out, "Deleted article %d\n", id)
}

func (a *App) ToggleLike(ctx context.Context, id int64) {
	token := a.session.Token()
	if token == "" {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	art, err := a.api.GetArticle(ctx, id, token)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load article %d: %s\n", id, err)
		return
	}

	resp, err := a.api.ToggleLike(ctx, id, token, !art.ViewerLiked)
	if err != nil {
		fmt.Fprintf(a.out, "Could not toggle like: %s\n", err)
		return
	}

	if resp.Liked {
		fmt.Fprintf(a.out, "Liked %q (%d likes)\n", resp.Article.Title, resp.Article.Likes)
	} else {
		fmt.Fprintf(a.out, "Unliked %q (%d likes)\n", resp.Article.Title, resp.Article.Likes)
	}
}
