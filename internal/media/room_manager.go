package media

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"

	"signal-service/internal/config"
)

// RoomHandle is the process's live connection to one external media room.
type RoomHandle interface {
	Name() string
	// JoinToken mints an access token for a participant to join the room.
	JoinToken(userID, userName string) (string, error)
	Disconnect(ctx context.Context) error
}

// HandleFactory constructs a fresh handle. Injected so tests can count
// constructions.
type HandleFactory func(ctx context.Context) (RoomHandle, error)

// RoomManager owns the single media-room handle slot. It is not a pool:
// Acquire returns the existing live handle or constructs exactly one, and
// concurrent first acquires serialize on the lock so only the winner
// constructs.
type RoomManager struct {
	mu      sync.Mutex
	handle  RoomHandle
	factory HandleFactory
	logger  *zap.Logger
}

func NewRoomManager(factory HandleFactory, logger *zap.Logger) *RoomManager {
	return &RoomManager{factory: factory, logger: logger}
}

func (m *RoomManager) Acquire(ctx context.Context) (RoomHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		return m.handle, nil
	}

	handle, err := m.factory(ctx)
	if err != nil {
		return nil, err
	}
	m.handle = handle
	m.logger.Info("media room handle acquired", zap.String("room", handle.Name()))
	return handle, nil
}

// Release disconnects the current handle if one exists and clears the
// slot regardless of the disconnect outcome. Teardown is best-effort and
// bounded; a later Acquire constructs a fresh handle.
func (m *RoomManager) Release(ctx context.Context) {
	m.mu.Lock()
	handle := m.handle
	m.handle = nil
	m.mu.Unlock()

	if handle == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := handle.Disconnect(ctx); err != nil {
		m.logger.Warn("media room disconnect failed",
			zap.String("room", handle.Name()),
			zap.Error(err))
	} else {
		m.logger.Info("media room handle released", zap.String("room", handle.Name()))
	}
}

type livekitHandle struct {
	name   string
	client *lksdk.RoomServiceClient
	cfg    config.LiveKitConfig
}

// NewLiveKitFactory builds handles backed by the LiveKit room service.
// Connecting creates a fresh remote room; disconnecting deletes it.
func NewLiveKitFactory(cfg config.LiveKitConfig) HandleFactory {
	return func(ctx context.Context) (RoomHandle, error) {
		roomName := uuid.NewString()
		client := lksdk.NewRoomServiceClient(cfg.Host, cfg.APIKey, cfg.APISecret)
		_, err := client.CreateRoom(ctx, &livekit.CreateRoomRequest{
			Name:         roomName,
			EmptyTimeout: 300,
		})
		if err != nil {
			return nil, err
		}
		return &livekitHandle{name: roomName, client: client, cfg: cfg}, nil
	}
}

func (h *livekitHandle) Name() string {
	return h.name
}

func (h *livekitHandle) JoinToken(userID, userName string) (string, error) {
	at := auth.NewAccessToken(h.cfg.APIKey, h.cfg.APISecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     h.name,
	}
	at.AddGrant(grant).
		SetIdentity(userID).
		SetName(userName).
		SetValidFor(24 * time.Hour)
	return at.ToJWT()
}

func (h *livekitHandle) Disconnect(ctx context.Context) error {
	_, err := h.client.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: h.name,
	})
	return err
}
