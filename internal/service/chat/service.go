package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/realtime"
	chatrepo "storefront-api/internal/repository/chat"
)

// Service persists messages and republishes each stored row on the realtime
// bus. Clients render an optimistic pending message immediately and replace
// it when the matching published row arrives, matching by sender and content
// since no client-generated id is round-tripped.
type Service struct {
	repo   chatRepo
	bus    realtime.Publisher
	logger *log.Logger
}

type chatRepo interface {
	Insert(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error)
	History(ctx context.Context, userID, otherUserID string) ([]domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	MarkRead(ctx context.Context, userID, otherUserID string) error
}

func New(repo chatrepo.Repository, bus realtime.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, bus: bus, logger: logger}
}

// Send stores the message and publishes the stored row. Publishing is
// best-effort: history remains the source of truth, so a failed publish is
// logged, not surfaced.
func (s *Service) Send(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content required")
	}
	if senderID == receiverID {
		return nil, errors.New("cannot message yourself")
	}

	m, err := s.repo.Insert(ctx, senderID, receiverID, content)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		payload, err := json.Marshal(m)
		if err == nil {
			err = s.bus.Publish(ctx, payload)
		}
		if err != nil {
			s.logger.Printf("chat service: publish message_id=%d error=%v", m.ID, err)
		}
	}

	return m, nil
}

// History returns the full thread between user and the other participant and
// marks the other side's messages read.
func (s *Service) History(ctx context.Context, userID, otherUserID string) ([]domain.Message, error) {
	messages, err := s.repo.History(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, userID, otherUserID); err != nil {
		s.logger.Printf("chat service: mark read user_id=%s other=%s error=%v", userID, otherUserID, err)
	}
	return messages, nil
}

func (s *Service) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.repo.Conversations(ctx, userID)
}
