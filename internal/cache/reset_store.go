package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

const (
	codeKeyPrefix     = "reset_code:"
	verifiedKeyPrefix = "reset_verified:"

	// CodeTTL bounds how long an emailed reset code stays redeemable.
	CodeTTL = 5 * time.Minute
	// VerifiedTTL bounds how long a verified reset may set a new password.
	VerifiedTTL = time.Hour
)

var (
	ErrCodeNotFound = errors.New("reset code not found or expired")
)

// ResetStore holds the password-reset code lifecycle: a short-lived code
// keyed by email, then a longer-lived verified flag once the code is
// redeemed.
type ResetStore interface {
	SetCode(email, code string) error
	GetCode(email string) (string, error)
	DeleteCode(email string) error
	SetVerified(email string) error
	IsVerified(email string) (bool, error)
	DeleteVerified(email string) error
}

// RedisResetStore is a redis-backed ResetStore.
type RedisResetStore struct {
	pool *redis.Pool
}

// NewRedisPool creates a connection pool for the given redis address.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func NewRedisResetStore(pool *redis.Pool) *RedisResetStore {
	return &RedisResetStore{pool: pool}
}

func (s *RedisResetStore) SetCode(email, code string) error {
	conn := s.pool.Get()
	defer conn.Close()

	_, err := conn.Do("SET", codeKeyPrefix+email, code, "EX", int(CodeTTL.Seconds()))
	if err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

func (s *RedisResetStore) GetCode(email string) (string, error) {
	conn := s.pool.Get()
	defer conn.Close()

	code, err := redis.String(conn.Do("GET", codeKeyPrefix+email))
	if errors.Is(err, redis.ErrNil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read reset code: %w", err)
	}
	return code, nil
}

func (s *RedisResetStore) DeleteCode(email string) error {
	conn := s.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("DEL", codeKeyPrefix+email); err != nil {
		return fmt.Errorf("failed to delete reset code: %w", err)
	}
	return nil
}

func (s *RedisResetStore) SetVerified(email string) error {
	conn := s.pool.Get()
	defer conn.Close()

	_, err := conn.Do("SET", verifiedKeyPrefix+email, "1", "EX", int(VerifiedTTL.Seconds()))
	if err != nil {
		return fmt.Errorf("failed to store verified flag: %w", err)
	}
	return nil
}

func (s *RedisResetStore) IsVerified(email string) (bool, error) {
	conn := s.pool.Get()
	defer conn.Close()

	_, err := redis.String(conn.Do("GET", verifiedKeyPrefix+email))
	if errors.Is(err, redis.ErrNil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read verified flag: %w", err)
	}
	return true, nil
}

func (s *RedisResetStore) DeleteVerified(email string) error {
	conn := s.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("DEL", verifiedKeyPrefix+email); err != nil {
		return fmt.Errorf("failed to delete verified flag: %w", err)
	}
	return nil
}
