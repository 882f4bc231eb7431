// Package mock provides in-memory store implementations for tests. The
// fakes mirror the pgx repositories' observable behavior: fresh reads on
// every call, "no rows" on missing ids and all-or-nothing transitions.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/estradax/learnway/internal/model"
	"github.com/jackc/pgx/v5"
)

// Store is the shared in-memory state. The Users, Requests and Messages
// views satisfy the service layer's store contracts.
type Store struct {
	mu sync.Mutex

	users    map[int64]*model.User
	requests map[int64]*model.EngagementRequest
	messages []*model.ConversationMessage

	nextUserID    int64
	nextRequestID int64
	nextMessageID int64

	Users    *UserStore
	Requests *RequestStore
	Messages *MessageStore
}

func NewStore() *Store {
	s := &Store{
		users:    make(map[int64]*model.User),
		requests: make(map[int64]*model.EngagementRequest),
	}
	s.Users = &UserStore{s}
	s.Requests = &RequestStore{s}
	s.Messages = &MessageStore{s}
	return s
}

// SeedUser inserts a user directly, bypassing validation.
func (s *Store) SeedUser(user *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == 0 {
		s.nextUserID++
		user.ID = s.nextUserID
	} else if user.ID > s.nextUserID {
		s.nextUserID = user.ID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	return user
}

// Request returns the stored row itself, for tests that need to reach past
// the store contract (e.g. to age a request).
func (s *Store) Request(id int64) *model.EngagementRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id]
}

type UserStore struct {
	s *Store
}

func (u *UserStore) Create(ctx context.Context, user *model.User) error {
	u.s.SeedUser(user)
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (u *UserStore) ListTutors(ctx context.Context) ([]*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	var tutors []*model.User
	for _, user := range u.s.users {
		if user.IsTutor {
			clone := *user
			tutors = append(tutors, &clone)
		}
	}
	sort.Slice(tutors, func(i, j int) bool { return tutors[i].ID < tutors[j].ID })
	return tutors, nil
}

type RequestStore struct {
	s *Store
}

func (r *RequestStore) Create(ctx context.Context, req *model.EngagementRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextRequestID++
	req.ID = r.s.nextRequestID
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	clone := *req
	r.s.requests[req.ID] = &clone
	return nil
}

func (r *RequestStore) GetByID(ctx context.Context, id int64) (*model.EngagementRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	clone := *req
	return &clone, nil
}

func (r *RequestStore) ListByParticipant(ctx context.Context, userID int64) ([]*model.EngagementRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var requests []*model.EngagementRequest
	for _, req := range r.s.requests {
		if req.StudentID == userID || req.TutorID == userID {
			clone := *req
			requests = append(requests, &clone)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *RequestStore) Transition(ctx context.Context, id int64, apply func(*model.EngagementRequest) error) (*model.EngagementRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	// Mutate a copy; commit only if apply succeeds.
	work := *stored
	if err := apply(&work); err != nil {
		return nil, err
	}

	work.UpdatedAt = time.Now().UTC()
	r.s.requests[id] = &work

	clone := work
	return &clone, nil
}

func (r *RequestStore) CountPendingOlderThan(ctx context.Context, cutoff time.Time) ([]model.PendingBacklog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[int64]int)
	for _, req := range r.s.requests {
		if req.Status == model.RequestStatusPending && req.CreatedAt.Before(cutoff) {
			counts[req.TutorID]++
		}
	}

	var backlog []model.PendingBacklog
	for tutorID, count := range counts {
		backlog = append(backlog, model.PendingBacklog{TutorID: tutorID, Count: count})
	}
	sort.Slice(backlog, func(i, j int) bool { return backlog[i].TutorID < backlog[j].TutorID })
	return backlog, nil
}

type MessageStore struct {
	s *Store
}

func (m *MessageStore) Create(ctx context.Context, msg *model.ConversationMessage) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	m.s.nextMessageID++
	msg.ID = m.s.nextMessageID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	clone := *msg
	m.s.messages = append(m.s.messages, &clone)
	return nil
}

func (m *MessageStore) ListByRequest(ctx context.Context, requestID int64) ([]*model.ConversationMessage, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var messages []*model.ConversationMessage
	for _, msg := range m.s.messages {
		if msg.RequestID == requestID {
			clone := *msg
			messages = append(messages, &clone)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}
