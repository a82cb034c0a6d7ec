package auth

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=auth

import (
	"context"

	"bookstore/internal/user"
)

// UserStore is the account storage the service needs.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByUsernameOrEmail(ctx context.Context, identifier string) (user.User, error)
}
