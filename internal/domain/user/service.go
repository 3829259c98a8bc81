package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notiq/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service handles user registration and token issuance.
type Service struct {
	store     Store
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewService creates a new user service.
func NewService(store Store, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if existing != nil {
		return nil, common.NewValidationError("user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}

	if err := s.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user registered", "user_id", u.ID, "email", u.Email)

	return u, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Token, error) {
	u, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if u == nil {
		return nil, common.NewValidationError("incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, common.NewValidationError("incorrect email or password")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}
