package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/model"
	"go.uber.org/zap"
)

// ConversationService is the append-only message log attached to an
// engagement request. It reuses the same participant gate as the lifecycle
// operations.
type ConversationService struct {
	requests RequestStore
	messages MessageStore
	logger   *zap.Logger
}

func NewConversationService(requests RequestStore, messages MessageStore, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		requests: requests,
		messages: messages,
		logger:   logger,
	}
}

// Append adds a message to the request's conversation.
func (s *ConversationService) Append(ctx context.Context, callerID, requestID int64, content, msgType string) (*model.ConversationMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fault.New(fault.ValidationFailed, "message content cannot be empty")
	}
	if msgType == "" {
		msgType = model.MessageTypeText
	}

	if err := s.authorize(ctx, callerID, requestID); err != nil {
		return nil, err
	}

	msg := &model.ConversationMessage{
		RequestID: requestID,
		SenderID:  callerID,
		Content:   content,
		Type:      msgType,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	s.logger.Info("Conversation message appended",
		zap.Int64("request_id", requestID),
		zap.Int64("sender_id", callerID),
	)

	return msg, nil
}

// List returns the request's messages oldest first.
func (s *ConversationService) List(ctx context.Context, callerID, requestID int64) ([]*model.ConversationMessage, error) {
	if err := s.authorize(ctx, callerID, requestID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

func (s *ConversationService) authorize(ctx context.Context, callerID, requestID int64) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return fault.New(fault.NotFound, "request not found")
	}
	if req.RoleOf(callerID) == model.RoleNone {
		return fault.New(fault.AuthorizationDenied, "you are not a party to this request")
	}
	return nil
}
