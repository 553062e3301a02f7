package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studytracker/internal/auth"
	"studytracker/internal/cache"
	"studytracker/internal/constants"
	"studytracker/internal/mailer"
	"studytracker/internal/models"
	"studytracker/internal/repository"
	"studytracker/internal/utils"
)

var (
	ErrUsernameTaken        = errors.New("username or email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("wrong password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidResetCode     = errors.New("invalid or expired reset code")
	ErrResetNotVerified     = errors.New("password reset has not been verified")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and the password-reset lifecycle.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenManager
	resetStore cache.ResetStore
	mail       mailer.Mailer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, resetStore cache.ResetStore, mail mailer.Mailer) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		resetStore: resetStore,
		mail:       mail,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with a bcrypt password hash.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns a signed bearer token. An unknown
// user and a wrong password are distinct failures, per the API contract.
func (s *AuthService) Login(input LoginInput) (string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrWrongPassword
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// RequestPasswordReset issues a reset code, caches it with a short TTL and
// emails it to the user.
func (s *AuthService) RequestPasswordReset(email string) error {
	if _, err := s.userRepo.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	if err := s.resetStore.SetCode(email, code); err != nil {
		return err
	}

	if err := s.mail.SendResetCode(email, code); err != nil {
		return err
	}

	return nil
}

// VerifyResetCode checks a submitted code against the cached one. On match
// the code is consumed and a verified flag with a longer TTL replaces it.
func (s *AuthService) VerifyResetCode(email, code string) error {
	stored, err := s.resetStore.GetCode(email)
	if err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if stored != code {
		return ErrInvalidResetCode
	}

	if err := s.resetStore.SetVerified(email); err != nil {
		return err
	}

	return s.resetStore.DeleteCode(email)
}

// ResetPassword sets a new password for a verified reset and clears the
// verified flag.
func (s *AuthService) ResetPassword(email, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	verified, err := s.resetStore.IsVerified(email)
	if err != nil {
		return err
	}
	if !verified {
		return ErrResetNotVerified
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePasswordHash(user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.resetStore.DeleteVerified(email)
}
