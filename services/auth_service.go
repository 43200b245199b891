package services

import (
	"fmt"
	"time"

	"unimarket/auth"
	"unimarket/errors"
	"unimarket/repositories"
)

type IAuthService interface {
	Signup(cmd SignupCommand) (Token, repositories.User, error)
	Login(username, password string) (Token, repositories.User, error)
	UpdateProfile(cmd UpdateProfileCommand) (repositories.User, error)
	ChangePassword(userID, newPassword string) error
}

type Token string

type SignupCommand struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UpdateProfileCommand struct {
	UserID         string
	Email          string
	FirstName      string
	LastName       string
	ProfilePicture *string
}

type AuthService struct {
	users             repositories.IUserRepository
	authTokenDuration time.Duration
}

func NewAuthService(users repositories.IUserRepository, authTokenDuration time.Duration) *AuthService {
	return &AuthService{users: users, authTokenDuration: authTokenDuration}
}

func (s *AuthService) Signup(cmd SignupCommand) (Token, repositories.User, error) {
	valReq := auth.SignupRequest{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: cmd.Password,
	}

	// 1. Validate business rules (username shape, email format, password
	// complexity) before any expensive cryptographic operation.
	if err := auth.ValidateSignup(valReq); err != nil {
		return "", repositories.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// 2. Hash the password using Argon2id. Done in the service layer to
	// keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return "", repositories.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user with the generated hash.
	user, err := s.users.CreateUser(repositories.NewUser{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: hashedPassword,
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
	})
	if err != nil {
		return "", repositories.User{}, err // Propagates ErrUserAlreadyExists
	}

	// 4. Generate the initial session token.
	token, err := auth.GenerateToken(user.ID, user.Roles, s.authTokenDuration)
	if err != nil {
		return "", repositories.User{}, errors.ErrTokenGeneration
	}

	return Token(token), user, nil
}

func (s *AuthService) Login(username, password string) (Token, repositories.User, error) {
	// Generic error on every failure path to prevent user enumeration.
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return "", repositories.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", repositories.User{}, errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Roles, s.authTokenDuration)
	if err != nil {
		return "", repositories.User{}, errors.ErrTokenGeneration
	}

	return Token(token), user, nil
}

func (s *AuthService) UpdateProfile(cmd UpdateProfileCommand) (repositories.User, error) {
	user, err := s.users.GetUserByID(cmd.UserID)
	if err != nil {
		return repositories.User{}, err
	}

	user.Email = cmd.Email
	user.FirstName = cmd.FirstName
	user.LastName = cmd.LastName
	if cmd.ProfilePicture != nil {
		user.ProfilePicture = cmd.ProfilePicture
	}

	if err := s.users.UpdateUser(user); err != nil {
		return repositories.User{}, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(userID, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}
	user.PasswordHash = hashedPassword

	return s.users.UpdateUser(user)
}
