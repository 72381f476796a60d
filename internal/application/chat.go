package application

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/input"
	"sportmeet/internal/ports/output"
)

var _ input.ChatUseCase = (*ChatService)(nil)

const maxMessageLength = 2000

type ChatService struct {
	chatRepo  output.ChatRepository
	eventRepo output.EventRepository
	userRepo  output.UserRepository
	now       func() time.Time
}

func NewChatService(chatRepo output.ChatRepository, eventRepo output.EventRepository, userRepo output.UserRepository) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

func (s *ChatService) PostMessage(ctx context.Context, eventID, userID, text string) (*entities.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxMessageLength {
		return nil, domain.ErrInvalidMessage
	}
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	msg := &entities.ChatMessage{
		ID:           uuid.NewString(),
		EventID:      eventID,
		UserID:       userID,
		UserName:     user.Name,
		UserPhotoURL: user.PhotoURL,
		Message:      text,
		SentAt:       s.now(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the chat log oldest first; a non-zero since returns
// only newer messages.
func (s *ChatService) ListMessages(ctx context.Context, eventID string, since time.Time) ([]entities.ChatMessage, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.chatRepo.FindByEventID(ctx, eventID, since)
}
