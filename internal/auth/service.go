package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service orchestrates signup and login: it resolves credentials through the
// user store and mints session tokens through the codec.
type Service struct {
	store UserStore
	codec *Codec
}

// Session is the result of a successful login or signup.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewService constructs a Service over the given store and codec.
func NewService(store UserStore, codec *Codec) *Service {
	return &Service{store: store, codec: codec}
}

// Signup registers a new account and issues its first session token.
// Repeating a signup with the same email deterministically fails with
// ErrDuplicateEmail: the pre-check catches the common case and the store's
// uniqueness constraint settles concurrent races.
func (s *Service) Signup(ctx context.Context, name, email, password, role string) (Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" || role == "" {
		return Session{}, fmt.Errorf("%w: name, email, password and role are required", ErrInvalidInput)
	}
	if !ValidRole(role) {
		return Session{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return Session{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}
	user := &User{
		Name:             name,
		Email:            email,
		PasswordHash:     hash,
		Role:             role,
		EnrolledCourses:  []int64{},
		CompletedCourses: []int64{},
	}
	if err := s.store.Create(ctx, user); err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// Login authenticates an email and password pair and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredential
	}
	return s.session(user)
}

// Authenticate resolves a bearer token to its stored identity. A valid token
// whose subject no longer exists is indistinguishable from an invalid one.
func (s *Service) Authenticate(ctx context.Context, token string) (User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	user, err := s.store.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidToken
		}
		return User{}, err
	}
	return user.Redacted(), nil
}

func (s *Service) session(user *User) (Session, error) {
	token, expiresAt, err := s.codec.Issue(user.ID, user.Name, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user.Redacted(), Token: token, ExpiresAt: expiresAt}, nil
}
