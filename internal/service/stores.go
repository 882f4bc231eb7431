package service

import (
	"context"
	"time"

	"github.com/estradax/learnway/internal/model"
)

// Store contracts the services depend on. The pgx repositories under
// internal/repository are the production implementations; tests substitute
// in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListTutors(ctx context.Context) ([]*model.User, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *model.EngagementRequest) error
	GetByID(ctx context.Context, id int64) (*model.EngagementRequest, error)
	ListByParticipant(ctx context.Context, userID int64) ([]*model.EngagementRequest, error)

	// Transition serializes one read-modify-write against a single request.
	// apply sees the freshly-read row; any error it returns aborts the write
	// and leaves the row untouched. Returns the driver's "no rows" error if
	// the id does not exist.
	Transition(ctx context.Context, id int64, apply func(*model.EngagementRequest) error) (*model.EngagementRequest, error)

	CountPendingOlderThan(ctx context.Context, cutoff time.Time) ([]model.PendingBacklog, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.ConversationMessage) error
	ListByRequest(ctx context.Context, requestID int64) ([]*model.ConversationMessage, error)
}
