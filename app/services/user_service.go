package services

import (
	"errors"
	"fmt"
	"time"

	"newsboard/app/forms"
	"newsboard/app/models"
	"newsboard/app/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login lasts.
const DefaultSessionTTL = 14 * 24 * time.Hour

// UserService handles accounts and sessions
type UserService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	sessionTTL  time.Duration
	hashCost    int
	logger      *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, sessionTTL time.Duration, logger *zap.Logger) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		hashCost:    bcrypt.DefaultCost,
		logger:      logger,
	}
}

// SetHashCost sets the bcrypt cost used for new passwords
func (s *UserService) SetHashCost(cost int) {
	s.hashCost = cost
}

// SessionTTL returns the lifetime of new sessions.
func (s *UserService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// CreateUser stores a new account with a hashed password.
func (s *UserService) CreateUser(username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup validates form and creates the account it describes.
func (s *UserService) Signup(form *forms.SignupForm) (*models.User, error) {
	if !form.Validate() {
		return nil, ErrInvalidForm
	}

	user, err := s.CreateUser(form.Get("username"), form.Get("password1"))
	if errors.Is(err, repositories.ErrDuplicate) {
		form.Errors.Add("username", forms.UsernameTakenMessage)
		return nil, ErrInvalidForm
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int("user_id", user.ID))
	return user, nil
}

// Login checks the credentials in form and opens a session, returning its
// token. Wrong credentials yield ErrInvalidCredentials with a non-field
// error on form.
func (s *UserService) Login(form *forms.LoginForm) (string, *models.User, error) {
	if !form.Validate() {
		return "", nil, ErrInvalidForm
	}

	user, err := s.Authenticate(form.Get("username"), form.Get("password"))
	if errors.Is(err, ErrInvalidCredentials) {
		form.Errors.Add(forms.NonFieldErrors, forms.InvalidCredentialsMessage)
		return "", nil, err
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.sessionRepo.Create(user.ID, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in", zap.Int("user_id", user.ID))
	return token, user, nil
}

// Authenticate returns the user whose username and password match.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Logout ends the session; an empty or unknown token is not an error.
func (s *UserService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(token)
}

// UserForSession resolves a session token. Unknown or expired tokens, and
// sessions whose user is gone, resolve to a nil user and no error.
func (s *UserService) UserForSession(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := s.sessionRepo.Get(token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return user, err
}
