package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const credentialsRequiredMessage = "Username and password are required"

// AuthService handles registration and login against the credential store.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *TokenService
	bcryptCost int
	log        logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, bcryptCost int, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// CredentialsInput carries a username and plaintext password.
type CredentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new user with a bcrypt hash of the password.
func (s *AuthService) Register(ctx context.Context, input CredentialsInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, &ValidationError{Message: credentialsRequiredMessage}
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ValidationError{Message: "Password must be at most 72 bytes"}
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same name.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithField("user_id", user.ID.Hex()).Info("User registered")
	return user, nil
}

// Login verifies credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return "", &ValidationError{Message: credentialsRequiredMessage}
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.VerifyPassword(user, input.Password) {
		s.log.WithField("user_id", user.ID.Hex()).Warn("Login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(Identity{UserID: user.ID.Hex()})
	if err != nil {
		return "", err
	}
	return token, nil
}

// VerifyPassword reports whether candidate matches the user's stored hash.
func (s *AuthService) VerifyPassword(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}
