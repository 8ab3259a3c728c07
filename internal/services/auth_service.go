package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/simple-task-app/internal/models"
	"github.com/yukikurage/simple-task-app/internal/repository"
	"github.com/yukikurage/simple-task-app/internal/session"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo  repository.UserRepository
	passwords PasswordHasher
}

// NewAuthService creates a new AuthService. A nil hasher means bcrypt with
// the default cost.
func NewAuthService(userRepo repository.UserRepository, passwords PasswordHasher) *AuthService {
	if passwords == nil {
		passwords = NewBcryptHasher(0)
	}
	return &AuthService{
		userRepo:  userRepo,
		passwords: passwords,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new user. Existing users are never modified.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	stored, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: stored,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByCredentials returns the user whose username and password both match.
// Unknown usernames and wrong passwords yield the same ErrInvalidCredentials.
func (s *AuthService) FindByCredentials(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwords.Compare(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the user with a fresh session bound
// to it.
func (s *AuthService) Login(input LoginInput) (*models.User, session.Session, error) {
	user, err := s.FindByCredentials(input.Username, input.Password)
	if err != nil {
		return nil, session.Anonymous(), err
	}
	return user, session.Authenticated(user.ID), nil
}

// Logout drops the user binding. Logging out an anonymous session is a no-op.
func (s *AuthService) Logout(_ session.Session) session.Session {
	return session.Anonymous()
}

// RequireSession returns the user bound to sess.
func (s *AuthService) RequireSession(sess session.Session) (uint64, error) {
	userID, ok := sess.UserID()
	if !ok {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
