package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studytracker/internal/auth"
	"studytracker/internal/cache"
	"studytracker/internal/repository"
)

// fakeResetStore is an in-memory stand-in for the redis-backed store.
type fakeResetStore struct {
	codes    map[string]string
	verified map[string]bool
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{
		codes:    make(map[string]string),
		verified: make(map[string]bool),
	}
}

func (f *fakeResetStore) SetCode(email, code string) error {
	f.codes[email] = code
	return nil
}

func (f *fakeResetStore) GetCode(email string) (string, error) {
	code, ok := f.codes[email]
	if !ok {
		return "", cache.ErrCodeNotFound
	}
	return code, nil
}

func (f *fakeResetStore) DeleteCode(email string) error {
	delete(f.codes, email)
	return nil
}

func (f *fakeResetStore) SetVerified(email string) error {
	f.verified[email] = true
	return nil
}

func (f *fakeResetStore) IsVerified(email string) (bool, error) {
	return f.verified[email], nil
}

func (f *fakeResetStore) DeleteVerified(email string) error {
	delete(f.verified, email)
	return nil
}

// recordingMailer captures sent reset codes instead of dialing SMTP.
type recordingMailer struct {
	to    []string
	codes []string
}

func (m *recordingMailer) SendResetCode(to, code string) error {
	m.to = append(m.to, to)
	m.codes = append(m.codes, code)
	return nil
}

type authTestEnv struct {
	service *AuthService
	tokens  *auth.TokenManager
	store   *fakeResetStore
	mail    *recordingMailer
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db := setupTestDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	store := newFakeResetStore()
	mail := &recordingMailer{}
	service := NewAuthService(repository.NewUserRepository(db), tokens, store, mail)

	return authTestEnv{service: service, tokens: tokens, store: store, mail: mail}
}

func TestRegister(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = env.service.Register(RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	token, err := env.service.Login(LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	userID, err := env.tokens.Parse(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestLogin_UnknownUserVsWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = env.service.Login(LoginInput{Username: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.service.Login(LoginInput{Username: "alice", Password: "wrongpass123"})
	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestPasswordResetLifecycle(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.ErrorIs(t, env.service.RequestPasswordReset("nobody@example.com"), ErrUserNotFound)

	require.NoError(t, env.service.RequestPasswordReset("alice@example.com"))
	require.Equal(t, []string{"alice@example.com"}, env.mail.to)
	require.Len(t, env.mail.codes, 1)
	code := env.mail.codes[0]
	require.Len(t, code, 6)

	// Confirming before verifying must fail.
	err = env.service.ResetPassword("alice@example.com", "newpassword1")
	require.ErrorIs(t, err, ErrResetNotVerified)

	require.ErrorIs(t, env.service.VerifyResetCode("alice@example.com", "000000x"), ErrInvalidResetCode)

	require.NoError(t, env.service.VerifyResetCode("alice@example.com", code))

	// The code is single-use.
	require.ErrorIs(t, env.service.VerifyResetCode("alice@example.com", code), ErrInvalidResetCode)

	require.NoError(t, env.service.ResetPassword("alice@example.com", "newpassword1"))

	_, err = env.service.Login(LoginInput{Username: "alice", Password: "password123"})
	require.ErrorIs(t, err, ErrWrongPassword)

	_, err = env.service.Login(LoginInput{Username: "alice", Password: "newpassword1"})
	require.NoError(t, err)

	// The verified flag is cleared after a successful reset.
	err = env.service.ResetPassword("alice@example.com", "anotherpass1")
	require.ErrorIs(t, err, ErrResetNotVerified)
}
