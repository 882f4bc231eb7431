package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/repository/base"
	"go.uber.org/zap"
)

// LifecycleService is the state machine over engagement requests. Every
// mutation re-reads the persisted row under a per-id lock, resolves the
// caller's role as the first gate, validates the transition against current
// state and writes back atomically.
type LifecycleService struct {
	users    UserStore
	requests RequestStore
	logger   *zap.Logger
}

func NewLifecycleService(users UserStore, requests RequestStore, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		users:    users,
		requests: requests,
		logger:   logger,
	}
}

// CreateRequestInput is the creation-time snapshot supplied by the student.
type CreateRequestInput struct {
	TutorID            int64
	StudentName        string
	StudentEmail       string
	StudentPhone       string
	Subject            string
	DurationMinutes    int
	PreferredSlot      string
	Message            string
	Negotiate          bool
	ProposedPriceCents *int64
	PriceReason        string
}

// Create opens a new engagement request from the student to a tutor.
func (s *LifecycleService) Create(ctx context.Context, studentID int64, in CreateRequestInput) (*model.EngagementRequest, error) {
	in.StudentName = strings.TrimSpace(in.StudentName)
	in.StudentEmail = strings.TrimSpace(in.StudentEmail)
	in.Subject = strings.TrimSpace(in.Subject)

	if in.TutorID == studentID {
		return nil, fault.New(fault.ValidationFailed, "you cannot contact yourself")
	}
	if in.StudentName == "" {
		return nil, fault.New(fault.ValidationFailed, "student name is required")
	}
	if in.StudentEmail == "" {
		return nil, fault.New(fault.ValidationFailed, "student email is required")
	}
	if in.Subject == "" {
		return nil, fault.New(fault.ValidationFailed, "subject is required")
	}
	if in.DurationMinutes <= 0 {
		return nil, fault.New(fault.ValidationFailed, "duration must be a positive number of minutes")
	}
	if in.ProposedPriceCents != nil && *in.ProposedPriceCents < 0 {
		return nil, fault.New(fault.ValidationFailed, "proposed price cannot be negative")
	}

	tutor, err := s.users.GetByID(ctx, in.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	if tutor == nil || !tutor.IsTutor {
		return nil, fault.New(fault.ValidationFailed, "tutor not found")
	}

	req := &model.EngagementRequest{
		StudentID:          studentID,
		TutorID:            in.TutorID,
		StudentName:        in.StudentName,
		StudentEmail:       in.StudentEmail,
		StudentPhone:       in.StudentPhone,
		Subject:            in.Subject,
		DurationMinutes:    in.DurationMinutes,
		PreferredSlot:      in.PreferredSlot,
		Message:            in.Message,
		Negotiate:          in.Negotiate,
		ProposedPriceCents: in.ProposedPriceCents,
		PriceReason:        in.PriceReason,
		Status:             model.RequestStatusPending,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("Engagement request created",
		zap.Int64("request_id", req.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("tutor_id", req.TutorID),
		zap.String("subject", req.Subject),
	)

	return req, nil
}

// Decision is the tutor's verdict on a pending request.
type Decision struct {
	Status    string
	FixedDate string
}

// Decide moves a pending request to approved or rejected. Only the tutor may
// decide, and only once.
func (s *LifecycleService) Decide(ctx context.Context, callerID, requestID int64, dec Decision) (*model.EngagementRequest, error) {
	req, err := s.transition(ctx, requestID, func(req *model.EngagementRequest) error {
		if err := requireRole(req, callerID, model.RoleTutor, "only the tutor can decide a request"); err != nil {
			return err
		}
		if !req.IsPending() {
			return fault.New(fault.PreconditionFailed, "request has already been decided")
		}

		switch model.RequestStatus(dec.Status) {
		case model.RequestStatusApproved:
			fixed, err := parseFixedDate(dec.FixedDate)
			if err != nil {
				return err
			}
			req.Status = model.RequestStatusApproved
			req.FixedDate = &fixed
		case model.RequestStatusRejected:
			req.Status = model.RequestStatusRejected
			req.FixedDate = nil
		default:
			return fault.New(fault.ValidationFailed, "status must be approved or rejected")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Engagement request decided",
		zap.Int64("request_id", req.ID),
		zap.Int64("tutor_id", req.TutorID),
		zap.String("status", string(req.Status)),
	)

	return req, nil
}

// Pay marks an approved request as paid. Paying an already-paid request is a
// no-op success; the original payment date is kept.
func (s *LifecycleService) Pay(ctx context.Context, callerID, requestID int64) (*model.EngagementRequest, error) {
	var firstPayment bool

	req, err := s.transition(ctx, requestID, func(req *model.EngagementRequest) error {
		if err := requireRole(req, callerID, model.RoleStudent, "only the student can pay for a request"); err != nil {
			return err
		}
		if !req.IsApproved() {
			return fault.New(fault.PreconditionFailed, "only approved requests can be paid")
		}
		if req.IsPaid {
			return nil
		}

		now := time.Now().UTC()
		req.IsPaid = true
		req.PaymentDate = &now
		firstPayment = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if firstPayment {
		s.logger.Info("Engagement request paid",
			zap.Int64("request_id", req.ID),
			zap.Int64("student_id", req.StudentID),
		)
	}

	return req, nil
}

// SubmitSummary stores the tutor's lesson summary. It has no state
// precondition of its own; MarkComplete requires it before the tutor can
// confirm.
func (s *LifecycleService) SubmitSummary(ctx context.Context, callerID, requestID int64, summary string) (*model.EngagementRequest, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, fault.New(fault.ValidationFailed, "summary cannot be empty")
	}

	req, err := s.transition(ctx, requestID, func(req *model.EngagementRequest) error {
		if err := requireRole(req, callerID, model.RoleTutor, "only the tutor can submit a lesson summary"); err != nil {
			return err
		}
		req.CompletionSummary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson summary submitted",
		zap.Int64("request_id", req.ID),
		zap.Int64("tutor_id", req.TutorID),
	)

	return req, nil
}

// MarkComplete records one party's completion confirmation. The student must
// confirm first; the tutor can only confirm afterwards and only with a
// summary on record. The request becomes completed when both sides have
// confirmed, and the completion timestamp is stamped exactly once.
func (s *LifecycleService) MarkComplete(ctx context.Context, callerID, requestID int64) (*model.EngagementRequest, error) {
	req, err := s.transition(ctx, requestID, func(req *model.EngagementRequest) error {
		role := req.RoleOf(callerID)
		if role == model.RoleNone {
			return fault.New(fault.AuthorizationDenied, "you are not a party to this request")
		}
		if !req.IsPaid {
			return fault.New(fault.PreconditionFailed, "cannot complete an unpaid request")
		}

		switch role {
		case model.RoleStudent:
			req.StudentCompleted = true
		case model.RoleTutor:
			if !req.StudentCompleted {
				return fault.New(fault.PreconditionFailed, "student must mark the request as finished first")
			}
			if strings.TrimSpace(req.CompletionSummary) == "" {
				return fault.New(fault.PreconditionFailed, "submit a lesson summary before completing")
			}
			req.TutorCompleted = true
		}

		req.IsCompleted = req.StudentCompleted && req.TutorCompleted
		if req.IsCompleted && req.CompletedAt == nil {
			now := time.Now().UTC()
			req.CompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Completion confirmed",
		zap.Int64("request_id", req.ID),
		zap.String("role", req.RoleOf(callerID).String()),
		zap.Bool("is_completed", req.IsCompleted),
	)

	return req, nil
}

// Get returns a request to one of its parties.
func (s *LifecycleService) Get(ctx context.Context, callerID, requestID int64) (*model.EngagementRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, fault.New(fault.NotFound, "request not found")
	}
	if req.RoleOf(callerID) == model.RoleNone {
		return nil, fault.New(fault.AuthorizationDenied, "you are not a party to this request")
	}
	return req, nil
}

// ListForUser returns all requests where the caller is either party.
func (s *LifecycleService) ListForUser(ctx context.Context, callerID int64) ([]*model.EngagementRequest, error) {
	requests, err := s.requests.ListByParticipant(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// StalePendingBacklog reports per-tutor counts of pending requests older
// than the given age. Used by the reminder sweeper; read-only.
func (s *LifecycleService) StalePendingBacklog(ctx context.Context, olderThan time.Duration) ([]model.PendingBacklog, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	backlog, err := s.requests.CountPendingOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("stale pending backlog: %w", err)
	}
	return backlog, nil
}

// transition wraps the store's Transition with the common error mapping.
func (s *LifecycleService) transition(ctx context.Context, requestID int64, apply func(*model.EngagementRequest) error) (*model.EngagementRequest, error) {
	req, err := s.requests.Transition(ctx, requestID, apply)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fault.New(fault.NotFound, "request not found")
		}
		var fe *fault.Error
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, fmt.Errorf("transition request %d: %w", requestID, err)
	}
	return req, nil
}

// requireRole is the authorization gate shared by the single-role
// operations: a non-party fails before anything else, the wrong party fails
// with the operation's own message.
func requireRole(req *model.EngagementRequest, callerID int64, want model.Role, denied string) error {
	role := req.RoleOf(callerID)
	if role == model.RoleNone {
		return fault.New(fault.AuthorizationDenied, "you are not a party to this request")
	}
	if role != want {
		return fault.New(fault.AuthorizationDenied, denied)
	}
	return nil
}

// parseFixedDate accepts a plain date or an RFC 3339 timestamp. Date-only
// input fixes the lesson at midnight UTC.
func parseFixedDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fault.New(fault.ValidationFailed, "a lesson date is required to approve a request")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fault.New(fault.ValidationFailed, "invalid lesson date format")
}
