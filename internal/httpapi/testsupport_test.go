package httpapi

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"codecrafted.org/internal/auth"
	"codecrafted.org/internal/catalog"
)

// memUserStore is an in-memory UserStore for handler tests.
type memUserStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]*auth.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*auth.User)}
}

func (s *memUserStore) Create(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return auth.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		s.seq++
		u.ID = fmt.Sprintf("user-%d", s.seq)
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *memUserStore) Find(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *memUserStore) List(_ context.Context) ([]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*auth.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memUserStore) Update(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return auth.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return auth.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// memCourseStore is an in-memory CourseStore for handler tests.
type memCourseStore struct {
	mu      sync.Mutex
	courses map[int64]*catalog.Course
}

func newMemCourseStore() *memCourseStore {
	return &memCourseStore{courses: make(map[int64]*catalog.Course)}
}

func (s *memCourseStore) Create(_ context.Context, c *catalog.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[c.CourseID]; ok {
		return catalog.ErrDuplicateCourse
	}
	clone := *c
	s.courses[c.CourseID] = &clone
	return nil
}

func (s *memCourseStore) Find(_ context.Context, courseID int64) (*catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *memCourseStore) List(_ context.Context) ([]*catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*catalog.Course, 0, len(s.courses))
	for _, c := range s.courses {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

// memInteractionStore is an in-memory InteractionStore for handler tests.
type memInteractionStore struct {
	mu    sync.Mutex
	seq   int
	items []*catalog.Interaction
}

func newMemInteractionStore() *memInteractionStore {
	return &memInteractionStore{}
}

func (s *memInteractionStore) Create(_ context.Context, i *catalog.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == "" {
		s.seq++
		i.ID = fmt.Sprintf("interaction-%d", s.seq)
	}
	clone := *i
	s.items = append(s.items, &clone)
	return nil
}

func (s *memInteractionStore) List(_ context.Context) ([]*catalog.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*catalog.Interaction, 0, len(s.items))
	for _, i := range s.items {
		clone := *i
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memInteractionStore) CoursesTaken(_ context.Context, userID string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]bool)
	var out []int64
	for _, i := range s.items {
		if i.UserID == userID && !seen[i.CourseID] {
			seen[i.CourseID] = true
			out = append(out, i.CourseID)
		}
	}
	return out, nil
}

type testEnv struct {
	api   *API
	users *memUserStore
	codec *auth.Codec
}

func newTestAPI(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()
	codec, err := auth.NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	users := newMemUserStore()
	cfg := Config{
		Auth:         auth.NewService(users, codec),
		Users:        users,
		Courses:      newMemCourseStore(),
		Interactions: newMemInteractionStore(),
		Version:      "test",
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return &testEnv{api: New(cfg), users: users, codec: codec}
}

func (e *testEnv) seedUser(t *testing.T, name, email, password, role string) (auth.User, string) {
	t.Helper()
	session, err := auth.NewService(e.users, e.codec).Signup(context.Background(), name, email, password, role)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return session.User, session.Token
}
