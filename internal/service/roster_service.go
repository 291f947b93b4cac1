package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"rockettalk/internal/model"
	"rockettalk/internal/util"
)

// RosterService seeds the users table from a roster file mapping usernames
// to initial passwords. Seeding runs once; a populated table is left alone.
type RosterService struct {
	users  UserStore
	logger *zap.Logger
}

func NewRosterService(users UserStore, logger *zap.Logger) *RosterService {
	return &RosterService{users: users, logger: logger}
}

// Seed loads the roster file and creates any users when the table is empty.
func (s *RosterService) Seed(ctx context.Context, path string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		s.logger.Info("Roster already seeded", zap.Int("users", count))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read roster %s: %w", path, err)
	}

	roster := map[string]string{}
	if err := json.Unmarshal(data, &roster); err != nil {
		return fmt.Errorf("failed to parse roster %s: %w", path, err)
	}

	for username, password := range roster {
		hash, err := util.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", username, err)
		}

		u := &model.User{
			Username:     strings.ToLower(username),
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
	}

	s.logger.Info("Roster seeded", zap.Int("users", len(roster)), zap.String("path", path))
	return nil
}
