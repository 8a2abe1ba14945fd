package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calorievision/backend/internal/database"
	"github.com/calorievision/backend/internal/models"
)

var (
	// ErrEmailTaken is returned when a signup email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so a caller cannot tell which half failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStorageUnavailable is returned when no document store is
	// configured.
	ErrStorageUnavailable = errors.New("database not configured")
)

// AuthService handles signup and login against the document store.
type AuthService struct {
	store  database.DocumentStore
	hasher PasswordHasher
}

func NewAuthService(store database.DocumentStore, hasher PasswordHasher) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
	}
}

// Signup creates a new user and returns its id. The pre-insert existence
// check produces the friendly conflict error; the unique email index in the
// store closes the race between concurrent signups, surfacing as the same
// conflict.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}

	existing, err := s.store.Find(ctx, models.UserCollection, map[string]interface{}{"email": email}, 1)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if len(existing) > 0 {
		return "", ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.store.Insert(ctx, models.UserCollection, user)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}

// Login verifies the credentials and returns the matching user. No session
// token is issued; subsequent requests are unauthenticated at the protocol
// level.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	var user models.User
	err := s.store.FindOne(ctx, models.UserCollection, map[string]interface{}{"email": email}, &user)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
