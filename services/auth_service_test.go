package services

import (
	"testing"
	"time"

	"unimarket/auth"
	"unimarket/errors"
	"unimarket/mocks"
	"unimarket/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Signup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should sign up successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		cmd := SignupCommand{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "ComplexPass123!",
		}

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateUser(gomock.Cond(func(u repositories.NewUser) bool {
				return u.Username == "alice" && u.PasswordHash != cmd.Password
			})).
			Return(repositories.User{ID: "user-uuid", Username: "alice", Roles: []string{"user"}}, nil).
			Times(1)

		token, user, err := svc.Signup(cmd)

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal("user-uuid", user.ID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		cmd := SignupCommand{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "simple", // Fails validation
		}

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any()).Times(0)

		token, _, err := svc.Signup(cmd)

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		cmd := SignupCommand{
			Username: "duplicate",
			Email:    "duplicate@example.com",
			Password: "ComplexPass123!",
		}

		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			Return(repositories.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, _, err := svc.Signup(cmd)

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	hash, err := auth.HashPassword("ComplexPass123!")
	require.NoError(t, err)
	stored := repositories.User{
		ID:           "user-uuid",
		Username:     "alice",
		PasswordHash: hash,
		Roles:        []string{"user"},
	}

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByUsername("alice").Return(stored, nil).Times(1)

		token, user, err := svc.Login("alice", "ComplexPass123!")

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal("user-uuid", user.ID)

		claims, err := auth.ValidateToken(string(token))
		req.NoError(err)
		req.Equal("user-uuid", claims.UserID)
	})

	t.Run("should return a generic error for a wrong password", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByUsername("alice").Return(stored, nil).Times(1)

		_, _, err := svc.Login("alice", "WrongPass123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return the same generic error for an unknown user", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByUsername("ghost").Return(repositories.User{}, errors.ErrUserNotFound).Times(1)

		_, _, err := svc.Login("ghost", "ComplexPass123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should store a fresh hash for a complex password", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByID("user-uuid").
			Return(repositories.User{ID: "user-uuid", Username: "alice", PasswordHash: "old"}, nil).
			Times(1)
		mockRepo.EXPECT().
			UpdateUser(gomock.Cond(func(u repositories.User) bool {
				match, err := auth.ComparePassword("NewComplex123!", u.PasswordHash)
				return err == nil && match
			})).
			Return(nil).
			Times(1)

		req.NoError(svc.ChangePassword("user-uuid", "NewComplex123!"))
	})

	t.Run("should reject a weak password without touching the repository", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByID(gomock.Any()).Times(0)

		req.Error(svc.ChangePassword("user-uuid", "weak"))
	})
}
