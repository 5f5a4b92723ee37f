package domain

import "time"

type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AuthorLogin string    `json:"author_login,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LikeCount   int       `json:"like_count"`
	LikedByMe   bool      `json:"liked_by_me,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Like struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
