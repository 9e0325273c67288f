package models

import "time"

// Article is a published post. Likes is the total like count and ViewerLiked
// is relative to the identity that issued the request; for anonymous requests
// it is always false. Author may be embedded by list/detail endpoints.
type Article struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	ViewerLiked bool      `json:"viewerLiked"`
	Author      *User     `json:"author,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ArticlePayload is the body of article create/update requests.
type ArticlePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LikeResponse is the echo of POST /api/articles/{id}/like: the article as it
// looks after the toggle plus the viewer's resulting flag.
type LikeResponse struct {
	Article Article `json:"article"`
	Liked   bool    `json:"liked"`
}
