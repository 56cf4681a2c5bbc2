package mock

import (
	"fmt"
	"sync"
	"time"

	"newsboard/app/models"
	"newsboard/app/repositories"

	"github.com/google/uuid"
)

type NewsRepository struct {
	news   map[int]*models.News
	nextID int
	mutex  sync.RWMutex

	// Comments, when set, receives the cascade of Delete.
	Comments *CommentRepository
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex

	// News, when set, is consulted so comments cannot reference missing news.
	News *NewsRepository
}

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

type SessionRepository struct {
	sessions map[string]session
	mutex    sync.RWMutex

	Now func() time.Time
}

type session struct {
	userID    int
	expiresAt time.Time
}

// NewStore returns a Store whose repositories live in memory.
func NewStore() *repositories.Store {
	news := NewNewsRepository()
	comments := NewCommentRepository()
	comments.News = news
	news.Comments = comments
	return &repositories.Store{
		News:     news,
		Comments: comments,
		Users:    NewUserRepository(),
		Sessions: NewSessionRepository(),
	}
}

func NewNewsRepository() *NewsRepository {
	return &NewsRepository{
		news:   make(map[int]*models.News),
		nextID: 1,
	}
}

func (m *NewsRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.news = make(map[int]*models.News)
	m.nextID = 1
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]*models.Comment),
		nextID:   1,
	}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]session),
		Now:      time.Now,
	}
}

// NewsRepository implementation
func (m *NewsRepository) Create(news *models.News) error {
	news.BeforeCreate()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	news.ID = m.nextID
	m.nextID++
	stored := *news
	stored.Comments = nil
	m.news[news.ID] = &stored
	return nil
}

func (m *NewsRepository) GetByID(id int) (*models.News, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	news, exists := m.news[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *news
	return &cp, nil
}

func (m *NewsRepository) List(limit, offset int) ([]*models.News, error) {
	m.mutex.RLock()
	all := make([]*models.News, 0, len(m.news))
	for _, news := range m.news {
		cp := *news
		all = append(all, &cp)
	}
	m.mutex.RUnlock()

	repositories.SortNewsByDate(all)
	return repositories.Page(all, limit, offset), nil
}

func (m *NewsRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.news), nil
}

func (m *NewsRepository) Delete(id int) error {
	m.mutex.Lock()
	if _, exists := m.news[id]; !exists {
		m.mutex.Unlock()
		return repositories.ErrNotFound
	}
	delete(m.news, id)
	m.mutex.Unlock()

	if m.Comments != nil {
		m.Comments.DeleteByNews(id)
	}
	return nil
}

func (m *NewsRepository) exists(id int) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.news[id]
	return ok
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	if m.News != nil && !m.News.exists(comment.NewsID) {
		return fmt.Errorf("news %d: %w", comment.NewsID, repositories.ErrNotFound)
	}
	comment.BeforeCreate()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// DeleteByNews removes every comment attached to newsID.
func (m *CommentRepository) DeleteByNews(newsID int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, comment := range m.comments {
		if comment.NewsID == newsID {
			delete(m.comments, id)
		}
	}
}

func (m *CommentRepository) ListByNews(newsID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.NewsID == newsID {
			cp := *comment
			comments = append(comments, &cp)
		}
	}
	m.mutex.RUnlock()

	repositories.SortCommentsByCreated(comments)
	return comments, nil
}

func (m *CommentRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments), nil
}

// UserRepository implementation
func (m *UserRepository) Create(user *models.User) error {
	user.BeforeCreate()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// SessionRepository implementation
func (m *SessionRepository) Create(userID int, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := uuid.NewString()
	m.sessions[token] = session{userID: userID, expiresAt: m.Now().Add(ttl)}
	return token, nil
}

func (m *SessionRepository) Get(token string) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, exists := m.sessions[token]
	if !exists || !m.Now().Before(s.expiresAt) {
		return 0, repositories.ErrNotFound
	}
	return s.userID, nil
}

func (m *SessionRepository) Delete(token string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, token)
	return nil
}
