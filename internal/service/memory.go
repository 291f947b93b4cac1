package service

import (
	"context"
	"sort"
	"sync"

	"rockettalk/internal/model"
)

// In-memory store implementations, used by tests and local development
// without Postgres.

type MemoryMessageStore struct {
	mu       sync.Mutex
	messages map[string]model.Message
}

func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{messages: make(map[string]model.Message)}
}

func (s *MemoryMessageStore) Create(_ context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = *m
	return nil
}

func (s *MemoryMessageStore) FindByID(_ context.Context, id string) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryMessageStore) ListSent(_ context.Context, username string) ([]model.Message, error) {
	return s.filter(func(m model.Message) bool { return m.From == username }), nil
}

func (s *MemoryMessageStore) ListReceived(_ context.Context, username string) ([]model.Message, error) {
	return s.filter(func(m model.Message) bool { return m.To == username }), nil
}

func (s *MemoryMessageStore) filter(keep func(model.Message) bool) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Message{}
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	// most recent first, matching the repository ORDER BY
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out
}

func (s *MemoryMessageStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.messages[id]
	delete(s.messages, id)
	return ok, nil
}

func (s *MemoryMessageStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make(map[string]model.Message)
	return nil
}

// Len reports the number of stored messages.
func (s *MemoryMessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type MemoryUserStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	nextID int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]model.User), nextID: 1}
}

func (s *MemoryUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	s.users[u.Username] = *u
	return nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) ListUsernames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := []string{}
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryUserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

type MemoryNotificationStore struct {
	mu            sync.Mutex
	notifications []model.Notification
	nextID        int
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{nextID: 1}
}

func (s *MemoryNotificationStore) Create(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextID
	s.nextID++
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *MemoryNotificationStore) CountUnread(_ context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.Username == username && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *MemoryNotificationStore) MarkRead(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].Username == username {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}
