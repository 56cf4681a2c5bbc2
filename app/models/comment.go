package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		return errors.New("created cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// SetNews sets the parent news item and updates the NewsID
func (c *Comment) SetNews(news *News) error {
	if news == nil {
		return errors.New("news cannot be nil")
	}

	c.News = news
	c.NewsID = news.ID
	return nil
}

// SetAuthor records user as the comment's author.
func (c *Comment) SetAuthor(user *User) error {
	if user == nil {
		return errors.New("author cannot be nil")
	}

	c.AuthorID = user.ID
	c.Author = user.Username
	return nil
}

// IsAuthoredBy reports whether user wrote the comment.
func (c *Comment) IsAuthoredBy(user *User) bool {
	return user != nil && user.ID != 0 && c.AuthorID == user.ID
}
