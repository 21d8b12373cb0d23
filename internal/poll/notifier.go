package poll

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier is the pull-based fallback transport: a per-process emitter
// that marks a channel as changed so a later poll can observe it.
// Repeated notifications before a poll collapse into one pending signal.
type Notifier struct {
	mu      sync.Mutex
	pending map[string]bool
	logger  *zap.Logger
}

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{
		pending: make(map[string]bool),
		logger:  logger,
	}
}

// Notify marks the channel changed. Safe on a nil receiver: before the
// process-wide notifier is wired up, notifications are dropped by intent
// and callers must tolerate the gap.
func (n *Notifier) Notify(channel string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.pending[channel] && n.logger != nil {
		n.logger.Debug("poll signal raised", zap.String("channel", channel))
	}
	n.pending[channel] = true
}

// Consume reports whether the channel had a pending signal and clears it.
func (n *Notifier) Consume(channel string) bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	changed := n.pending[channel]
	delete(n.pending, channel)
	return changed
}

// Pending reads the flag without clearing it.
func (n *Notifier) Pending(channel string) bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending[channel]
}
