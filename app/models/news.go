package models

import (
	"errors"
	"time"
)

// DateOf truncates t to its calendar date, expressed in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks if the news item meets all validation requirements
func (n *News) Validate() error {
	if err := validate.Struct(n); err != nil {
		return err
	}

	if n.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate stamps the creation time and defaults the publication date to it.
func (n *News) BeforeCreate() {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Date.IsZero() {
		n.Date = n.CreatedAt
	}
	n.Date = DateOf(n.Date)
}

// AddComment attaches a comment to the news thread
func (n *News) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.NewsID = n.ID
	comment.News = n
	n.Comments = append(n.Comments, comment)
	return nil
}
