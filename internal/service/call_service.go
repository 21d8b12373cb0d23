package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"signal-service/internal/bus"
	"signal-service/internal/domain"
	"signal-service/internal/media"
	"signal-service/internal/middleware"
)

// CallChannel is the bus channel carrying a conversation's call events.
func CallChannel(conversationID string) string {
	return fmt.Sprintf("call:%s", conversationID)
}

type callPhase int

const (
	phaseIdle callPhase = iota
	phaseStarted
	phaseEnded
)

type CallService interface {
	StartCall(ctx context.Context, req *domain.CallRequest) error
	EndCall(ctx context.Context, req *domain.CallRequest) error
	Active(conversationID string) bool
}

// callService runs the per-conversation call state machine:
// IDLE -> STARTED -> ENDED -> IDLE (re-entrant). ENDED -> IDLE has no
// explicit transition; an ended conversation is simply eligible to start
// again.
type callService struct {
	publisher bus.Publisher
	rooms     *media.RoomManager
	logger    *zap.Logger

	mu     sync.Mutex
	phases map[string]callPhase
}

func NewCallService(publisher bus.Publisher, rooms *media.RoomManager, logger *zap.Logger) CallService {
	return &callService{
		publisher: publisher,
		rooms:     rooms,
		logger:    logger,
		phases:    make(map[string]callPhase),
	}
}

// StartCall moves the conversation to STARTED and emits call:started.
// Starting an already-started conversation is accepted and re-emits the
// event; downstream clients deduplicate by payload equality.
func (s *callService) StartCall(ctx context.Context, req *domain.CallRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("unknown call type %q", req.Type)
	}

	s.mu.Lock()
	prev := s.phases[req.ConversationID]
	s.phases[req.ConversationID] = phaseStarted
	s.mu.Unlock()

	if prev != phaseStarted && s.rooms != nil {
		if _, err := s.rooms.Acquire(ctx); err != nil {
			s.logger.Warn("media room acquire failed",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err))
		}
	}

	return s.emit(ctx, req, domain.CallStarted)
}

// EndCall moves the conversation to ENDED and emits call:ended. A repeat
// end for an already-ended (or never-started) conversation succeeds and
// re-emits the identical payload rather than erroring.
func (s *callService) EndCall(ctx context.Context, req *domain.CallRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("unknown call type %q", req.Type)
	}

	s.mu.Lock()
	s.phases[req.ConversationID] = phaseEnded
	s.mu.Unlock()

	if s.rooms != nil {
		s.rooms.Release(ctx)
	}

	return s.emit(ctx, req, domain.CallEnded)
}

// Active reports whether the conversation currently has a started call.
func (s *callService) Active(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[conversationID] == phaseStarted
}

func (s *callService) emit(ctx context.Context, req *domain.CallRequest, phase domain.CallPhase) error {
	event := domain.EventCallStarted
	if phase == domain.CallEnded {
		event = domain.EventCallEnded
	}

	payload := domain.CallEvent{
		ConversationID: req.ConversationID,
		Type:           req.Type,
		Phase:          phase,
	}

	if err := s.publisher.Publish(ctx, CallChannel(req.ConversationID), event, payload); err != nil {
		middleware.RecordDroppedNotification()
		s.logger.Warn("call event dropped",
			zap.String("conversation_id", req.ConversationID),
			zap.String("event", event),
			zap.Error(err))
		return nil
	}
	middleware.RecordCallEvent(string(phase))
	return nil
}
