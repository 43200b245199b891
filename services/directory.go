package services

import (
	"unimarket/auth"
	"unimarket/errors"
	"unimarket/repositories"
)

// IUserDirectory resolves opaque credentials and user ids to account
// records. It is the only identity surface the chat core depends on; the
// account subsystem owns the data behind it.
type IUserDirectory interface {
	ResolveCredential(token string) (repositories.User, error)
	ResolveIdentity(id string) (repositories.User, error)
}

type UserDirectory struct {
	users repositories.IUserRepository
}

func NewUserDirectory(users repositories.IUserRepository) *UserDirectory {
	return &UserDirectory{users: users}
}

// ResolveCredential validates the bearer token and loads the account it was
// issued for. A valid signature over a since-deleted account still fails:
// the token alone is not an identity.
func (d *UserDirectory) ResolveCredential(token string) (repositories.User, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return repositories.User{}, errors.ErrInvalidCredentials
	}
	return d.users.GetUserByID(claims.UserID)
}

func (d *UserDirectory) ResolveIdentity(id string) (repositories.User, error) {
	return d.users.GetUserByID(id)
}
