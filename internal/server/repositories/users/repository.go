// Package users holds the credential store: the registered identities keyed
// by email.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the credential store contract. There is no update or
// delete: identities are immutable once created.
type Repository interface {
	// FindByEmail returns common.ErrorNotFound when no identity has email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	// Insert stores user atomically if its email is free and returns
	// common.ErrorAlreadyExists otherwise. ID and CreatedAt are filled in
	// when empty.
	Insert(ctx context.Context, user *models.User) (*models.User, error)
}
