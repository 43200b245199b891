//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	goerrors "errors"
	"fmt"
	"time"

	"unimarket/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(user NewUser) (User, error)
	GetUserByUsername(username string) (User, error)
	GetUserByID(id string) (User, error)
	UpdateUser(user User) error
	ListUsers() ([]User, error)
}

// User is the account record as seen by the service layer. PasswordHash is
// the Argon2id encoded form, never the plain password.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	ProfilePicture *string
	Roles          []string
	CreatedAt      time.Time
}

// NewUser carries the fields needed to create an account. The password must
// already be hashed by the caller.
type NewUser struct {
	Username       string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	ProfilePicture *string
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

type diskUser struct {
	ID             string  `cbor:"id"`
	Username       string  `cbor:"username"`
	Email          string  `cbor:"email"`
	PasswordHash   string  `cbor:"password_hash"`
	FirstName      string  `cbor:"first_name"`
	LastName       string  `cbor:"last_name"`
	ProfilePicture *string `cbor:"profile_picture"`
	Roles          []string `cbor:"roles"`
	CreatedAt      int64   `cbor:"created_at"`
}

// CreateUser persists a new account. Usernames and emails are both unique:
// the user record lives under "user:{username}" and two marker keys,
// "uid:{id}" -> username and "uemail:{email}", provide id lookup and email
// uniqueness respectively.
func (u *UserRepository) CreateUser(user NewUser) (User, error) {
	created := User{
		ID:             uuid.New().String(),
		Username:       user.Username,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
		Roles:          []string{"user"},
		CreatedAt:      time.Now().UTC(),
	}

	data, err := cbor.Marshal(fromUser(created))
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		usernameKey := []byte("user:" + user.Username)
		if _, err := txn.Get(usernameKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		emailKey := []byte("uemail:" + user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(usernameKey, data); err != nil {
			return err
		}
		if err := txn.Set(emailKey, []byte(user.Username)); err != nil {
			return err
		}
		return txn.Set([]byte("uid:"+created.ID), []byte(user.Username))
	})
	if err != nil {
		return User{}, err
	}
	return created, nil
}

func (u *UserRepository) GetUserByUsername(username string) (User, error) {
	var du diskUser

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &du)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return toUser(du), nil
}

func (u *UserRepository) GetUserByID(id string) (User, error) {
	var username []byte

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("uid:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			username = append([]byte(nil), val...)
			return nil
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u.GetUserByUsername(string(username))
}

// UpdateUser rewrites the stored record. The username is immutable, so the
// primary key never moves; the email marker is refreshed when it changed.
func (u *UserRepository) UpdateUser(user User) error {
	data, err := cbor.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + user.Username)
		item, err := txn.Get(key)
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var previous diskUser
		if err := item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &previous)
		}); err != nil {
			return err
		}

		if previous.Email != user.Email {
			if _, err := txn.Get([]byte("uemail:" + user.Email)); err == nil {
				return errors.ErrUserAlreadyExists
			}
			if err := txn.Delete([]byte("uemail:" + previous.Email)); err != nil {
				return err
			}
			if err := txn.Set([]byte("uemail:"+user.Email), []byte(user.Username)); err != nil {
				return err
			}
		}
		return txn.Set(key, data)
	})
}

func (u *UserRepository) ListUsers() ([]User, error) {
	var users []User
	prefix := []byte("user:")

	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var du diskUser
				if err := cbor.Unmarshal(val, &du); err != nil {
					return err
				}
				users = append(users, toUser(du))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}

func fromUser(user User) diskUser {
	return diskUser{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
		Roles:          user.Roles,
		CreatedAt:      user.CreatedAt.Unix(),
	}
}

func toUser(du diskUser) User {
	return User{
		ID:             du.ID,
		Username:       du.Username,
		Email:          du.Email,
		PasswordHash:   du.PasswordHash,
		FirstName:      du.FirstName,
		LastName:       du.LastName,
		ProfilePicture: du.ProfilePicture,
		Roles:          du.Roles,
		CreatedAt:      time.Unix(du.CreatedAt, 0).UTC(),
	}
}
