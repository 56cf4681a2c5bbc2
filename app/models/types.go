package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// News represents a published news item with its comment thread.
type News struct {
	ID        int        `json:"id" validate:"gte=0"`
	Title     string     `json:"title" validate:"required,max=250"`
	Text      string     `json:"text" validate:"required"`
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"created_at" validate:"required"`
	Comments  []*Comment `json:"comments,omitempty" validate:"-"`
}

// Comment represents a user comment on a news item.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	NewsID    int       `json:"news_id" validate:"required,gt=0"`
	AuthorID  int       `json:"author_id" validate:"required,gt=0"`
	Author    string    `json:"author" validate:"required,max=150"`
	Text      string    `json:"text" validate:"required"`
	CreatedAt time.Time `json:"created" validate:"required"`
	News      *News     `json:"-" validate:"-"`
}

// User is an account that can sign in and author comments.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,min=1,max=150"`
	PasswordHash []byte    `json:"-" validate:"required"`
	CreatedAt    time.Time `json:"created_at" validate:"required"`
}
