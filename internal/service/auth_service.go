package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rockettalk/internal/session"
	"rockettalk/internal/util"
)

// ErrInvalidCredentials is returned when the username/password pair is wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	users    UserStore
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(users UserStore, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Login checks credentials and returns a signed login token. Usernames are
// case insensitive.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	username = strings.ToLower(username)

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	token, err := session.GenerateToken(u.Username, s.secret, s.tokenTTL)
	if err != nil {
		return "", "", err
	}

	return u.Username, token, nil
}

// People lists every roster username except the current user, for the
// compose form's recipient picker.
func (s *AuthService) People(ctx context.Context, current string) ([]string, error) {
	names, err := s.users.ListUsernames(ctx)
	if err != nil {
		return nil, err
	}

	people := []string{}
	for _, name := range names {
		if name != current {
			people = append(people, name)
		}
	}
	return people, nil
}
