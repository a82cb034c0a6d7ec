package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookstore/internal/platform/validate"
	"bookstore/internal/session"
	"bookstore/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError lists the registration fields that failed validation.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// SuperAdmin is the credential pair that always yields an admin session
// without consulting the user store.
type SuperAdmin struct {
	Username string
	Password string
}

func (a SuperAdmin) matches(identifier, password string) bool {
	if a.Username == "" || a.Password == "" {
		return false
	}
	u := subtle.ConstantTimeCompare([]byte(identifier), []byte(a.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password))
	return u&p == 1
}

type Service struct {
	users  UserStore
	admin  SuperAdmin
	logger *slog.Logger
}

func NewService(users UserStore, admin SuperAdmin, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		admin:  admin,
		logger: logger.With("component", "auth"),
	}
}

type RegisterInput struct {
	Username string `validate:"required,min=3,max=50,username"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72,bcrypt"`
}

// Register creates a user account with a bcrypt hash of the password.
// It returns user.ErrDuplicate when the username or email is taken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if errs := validate.Struct(in); len(errs) > 0 {
		return user.User{}, &ValidationError{Fields: errs}
	}
	if strings.EqualFold(in.Username, s.admin.Username) {
		return user.User{}, user.ErrDuplicate
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return *u, nil
}

// Login authenticates identifier (username or email) and password.
func (s *Service) Login(ctx context.Context, identifier, password string) (session.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return session.Session{}, ErrInvalidCredentials
	}

	if s.admin.matches(identifier, password) {
		s.logger.Info("super-admin login")
		return session.Session{UserID: 0, Name: s.admin.Username, Admin: true}, nil
	}

	u, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = VerifyPassword(dummyHash, password)
			return session.Session{}, ErrInvalidCredentials
		}
		return session.Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return session.Session{}, ErrInvalidCredentials
	}
	return session.Session{UserID: u.ID, Name: u.Username, Admin: false}, nil
}
