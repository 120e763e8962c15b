package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"vista/internal/model"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrAccountDisabled   = errors.New("account is disabled")
)

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer is the auth collaborator that owns token lifecycle.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint) (token string, created bool, err error)
	Revoke(ctx context.Context, token string) error
}

type AuthService struct {
	userStore UserStore
	tokens    TokenIssuer
	log       zerolog.Logger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(userStore UserStore, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		userStore: userStore,
		tokens:    tokens,
		log:       log.With().Str("service", "auth").Logger(),
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	s.log.Info().Str("username", username).Msg("login attempt")

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Warn().Str("username", username).Msg("failed login attempt")
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn().Str("username", username).Msg("failed login attempt")
		return nil, ErrInvalidCredential
	}

	if user.Disabled {
		s.log.Warn().Str("username", username).Msg("disabled account login attempt")
		return nil, ErrAccountDisabled
	}

	token, created, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("username", username).
		Bool("token_created", created).
		Msg("successful login")
	return &AuthResult{Token: token, User: user}, nil
}

// Logout revokes the caller's token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke token failed: %w", err)
	}
	return nil
}
