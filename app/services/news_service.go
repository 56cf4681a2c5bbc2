package services

import (
	"fmt"
	"math"

	"newsboard/app/models"
	"newsboard/app/repositories"
)

// DefaultNewsPerPage is how many news items the home page shows.
const DefaultNewsPerPage = 10

// NewsService assembles the home and detail pages
type NewsService struct {
	newsRepo    repositories.NewsRepository
	commentRepo repositories.CommentRepository
	perPage     int
}

// NewsPage is one page of the home listing.
type NewsPage struct {
	News    []*models.News
	Page    int
	HasNext bool
}

// NewNewsService creates a new NewsService; perPage below 1 falls back to
// DefaultNewsPerPage.
func NewNewsService(newsRepo repositories.NewsRepository, commentRepo repositories.CommentRepository, perPage int) *NewsService {
	if perPage < 1 {
		perPage = DefaultNewsPerPage
	}
	return &NewsService{
		newsRepo:    newsRepo,
		commentRepo: commentRepo,
		perPage:     perPage,
	}
}

// PerPage returns the page size.
func (s *NewsService) PerPage() int {
	return s.perPage
}

// Home returns the given 1-based page of news, newest first.
func (s *NewsService) Home(page int) (*NewsPage, error) {
	if page < 1 {
		page = 1
	}
	// Pages past this would overflow the offset; they are empty anyway.
	if page > (math.MaxInt-1)/s.perPage {
		return &NewsPage{Page: page}, nil
	}

	offset := (page - 1) * s.perPage
	// One extra row tells whether another page follows.
	news, err := s.newsRepo.List(s.perPage+1, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	result := &NewsPage{Page: page}
	if len(news) > s.perPage {
		result.HasNext = true
		news = news[:s.perPage]
	}
	result.News = news
	return result, nil
}

// Detail retrieves a news item with its comments, oldest first
func (s *NewsService) Detail(id int) (*models.News, error) {
	news, err := s.newsRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByNews(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	news.Comments = make([]*models.Comment, 0, len(comments))
	for _, comment := range comments {
		if err := news.AddComment(comment); err != nil {
			return nil, err
		}
	}

	return news, nil
}

// CreateNews validates and stores a news item
func (s *NewsService) CreateNews(news *models.News) error {
	news.BeforeCreate()
	if err := news.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return s.newsRepo.Create(news)
}
