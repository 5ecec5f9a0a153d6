package api

import (
	"context"
	"net/http"
	"time"
)

// PostAuthor is the author summary embedded in a post.
type PostAuthor struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Comment is a single comment on a post.
type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a feed entry.
type Post struct {
	ID        string     `json:"_id"`
	User      PostAuthor `json:"user"`
	Content   string     `json:"content"`
	Emotion   string     `json:"emotion"`
	Likes     []string   `json:"likes,omitempty"`
	Comments  []Comment  `json:"comments,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Engagement is the trending sort key: likes plus comments.
func (p *Post) Engagement() int {
	return len(p.Likes) + len(p.Comments)
}

type createPostRequest struct {
	Content string `json:"content"`
	Emotion string `json:"emotion"`
}

// ListPosts fetches the feed.
func (c *Client) ListPosts(ctx context.Context, token string) ([]Post, error) {
	var posts []Post
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts", token, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a new post tagged with an emotion.
func (c *Client) CreatePost(ctx context.Context, token, content, emotion string) (*Post, error) {
	var post Post
	req := createPostRequest{Content: content, Emotion: emotion}
	if err := c.doJSON(ctx, http.MethodPost, "/api/posts", token, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
