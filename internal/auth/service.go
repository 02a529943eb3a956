// Package auth signs operators in and guards the mutating routes with JWT.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates the single configured operator account.
type Service struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewService hashes password with bcrypt unless it already is a bcrypt hash.
// An empty password disables sign-in.
func NewService(username, password string, secret []byte, ttl time.Duration) (*Service, error) {
	s := &Service{
		username: username,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
	if password == "" {
		return s, nil
	}
	if looksLikeBcrypt(password) {
		s.passwordHash = []byte(password)
		return s, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s.passwordHash = hashed
	return s, nil
}

func (s *Service) Authenticate(username, password string) error {
	if len(s.passwordHash) == 0 {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken returns an HS256 token for username valid for the configured TTL.
func (s *Service) IssueToken(username string) (string, time.Time, error) {
	expires := s.now().Add(s.ttl)
	claims := jwt.MapClaims{
		"sub": username,
		"exp": expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
