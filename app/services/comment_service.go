package services

import (
	"errors"
	"fmt"

	"newsboard/app/forms"
	"newsboard/app/metrics"
	"newsboard/app/models"
	"newsboard/app/repositories"

	"go.uber.org/zap"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	newsRepo    repositories.NewsRepository
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewCommentService creates a new CommentService. logger and m may be nil.
func NewCommentService(commentRepo repositories.CommentRepository, newsRepo repositories.NewsRepository, logger *zap.Logger, m *metrics.Metrics) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		commentRepo: commentRepo,
		newsRepo:    newsRepo,
		logger:      logger,
		metrics:     m,
	}
}

// CreateComment validates form and stores its text as a comment by user
// on the news item newsID. An invalid form yields ErrInvalidForm with the
// field errors left on form.
func (s *CommentService) CreateComment(user *models.User, newsID int, form *forms.CommentForm) (*models.Comment, error) {
	if user == nil {
		return nil, ErrLoginRequired
	}

	news, err := s.newsRepo.GetByID(newsID)
	if err != nil {
		return nil, err
	}

	if !s.validate(form, user) {
		return nil, ErrInvalidForm
	}

	comment := &models.Comment{Text: form.Text()}
	if err := comment.SetNews(news); err != nil {
		return nil, err
	}
	if err := comment.SetAuthor(user); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.metrics.CommentCreated()
	s.logger.Info("comment created",
		zap.Int("comment_id", comment.ID),
		zap.Int("news_id", comment.NewsID),
		zap.Int("user_id", user.ID),
	)
	return comment, nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(id int) (*models.Comment, error) {
	return s.commentRepo.GetByID(id)
}

// Authorize loads comment id and checks that user may change it.
// The comment is returned only with AccessGranted.
func (s *CommentService) Authorize(user *models.User, id int) (*models.Comment, Access, error) {
	if user == nil {
		return nil, AccessLoginRequired, nil
	}

	comment, err := s.GetComment(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, AccessNotFound, nil
	}
	if err != nil {
		return nil, AccessNotFound, err
	}

	access := Authorize(user, comment)
	if access != AccessGranted {
		s.logger.Debug("comment access refused",
			zap.Int("comment_id", id),
			zap.Int("user_id", user.ID),
			zap.Stringer("access", access),
		)
		return nil, access, nil
	}
	return comment, access, nil
}

// UpdateText replaces the comment's text with the form's. Only the text
// changes; author, news and creation time are kept.
func (s *CommentService) UpdateText(user *models.User, id int, form *forms.CommentForm) (*models.Comment, Access, error) {
	comment, access, err := s.Authorize(user, id)
	if err != nil || access != AccessGranted {
		return nil, access, err
	}

	if !s.validate(form, user) {
		return comment, access, ErrInvalidForm
	}

	comment.Text = form.Text()
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, access, fmt.Errorf("failed to update comment: %w", err)
	}

	s.logger.Info("comment updated", zap.Int("comment_id", id), zap.Int("user_id", user.ID))
	return comment, access, nil
}

// DeleteComment removes the comment when user wrote it.
func (s *CommentService) DeleteComment(user *models.User, id int) (*models.Comment, Access, error) {
	comment, access, err := s.Authorize(user, id)
	if err != nil || access != AccessGranted {
		return nil, access, err
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return nil, access, fmt.Errorf("failed to delete comment: %w", err)
	}

	s.logger.Info("comment deleted", zap.Int("comment_id", id), zap.Int("user_id", user.ID))
	return comment, access, nil
}

func (s *CommentService) validate(form *forms.CommentForm, user *models.User) bool {
	if form.Validate() {
		return true
	}
	if forms.ContainsBadWords(form.Text()) {
		s.metrics.CommentRejected()
		s.logger.Info("comment rejected", zap.Int("user_id", user.ID))
	}
	return false
}
