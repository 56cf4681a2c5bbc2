package repositories

import (
	"time"

	"newsboard/app/models"
)

// NewsRepository defines the interface for news data access.
// List returns news ordered by date, newest first.
type NewsRepository interface {
	Create(news *models.News) error
	GetByID(id int) (*models.News, error)
	List(limit, offset int) ([]*models.News, error)
	Count() (int, error)
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access.
// ListByNews returns comments ordered by creation time, oldest first.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByNews(newsID int) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int) error
	Count() (int, error)
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// SessionRepository maps opaque session tokens to user ids.
type SessionRepository interface {
	Create(userID int, ttl time.Duration) (string, error)
	Get(token string) (int, error)
	Delete(token string) error
}
