package domain

import "time"

type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	UserID      string    `json:"user_id"`
	AuthorLogin string    `json:"author_login,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
