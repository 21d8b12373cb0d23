package service

import (
	"context"

	"go.uber.org/zap"

	"signal-service/internal/bus"
	"signal-service/internal/config"
	"signal-service/internal/domain"
	"signal-service/internal/middleware"
	"signal-service/internal/poll"
)

type MemberService interface {
	// NotifyChanged broadcasts a "membership data may have changed" signal
	// on the given channel. It never fails: both transports are
	// best-effort and the caller's durable work has already happened.
	NotifyChanged(ctx context.Context, channel string)
	// ConsumeChanged reports and clears the pending poll signal.
	ConsumeChanged(channel string) bool
}

// memberService fans membership-change signals out over the push bus and
// the poll fallback. The two transports are independent at-least-attempted
// broadcasts; convergence, not per-message ordering, is the contract.
type memberService struct {
	publisher  bus.Publisher
	notifier   *poll.Notifier
	notifyMode string
	logger     *zap.Logger
}

func NewMemberService(publisher bus.Publisher, notifier *poll.Notifier, cfg config.SignalingConfig, logger *zap.Logger) MemberService {
	return &memberService{
		publisher:  publisher,
		notifier:   notifier,
		notifyMode: cfg.NotifyMode,
		logger:     logger,
	}
}

func (s *memberService) NotifyChanged(ctx context.Context, channel string) {
	busErr := s.publisher.Publish(ctx, channel, domain.EventMembersChanged, nil)
	if busErr != nil {
		middleware.RecordDroppedNotification()
		s.logger.Warn("membership broadcast dropped on bus",
			zap.String("channel", channel),
			zap.Error(busErr))
	}

	switch s.notifyMode {
	case config.NotifyModeFallback:
		if busErr != nil {
			s.notifier.Notify(channel)
		}
	default: // both
		s.notifier.Notify(channel)
	}

	middleware.RecordMembershipSignal()
}

func (s *memberService) ConsumeChanged(channel string) bool {
	return s.notifier.Consume(channel)
}
