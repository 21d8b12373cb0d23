package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"signal-service/internal/domain"
	"signal-service/internal/repository"
)

// MockPresenceRepository is a mock implementation of PresenceRepository
type MockPresenceRepository struct {
	SetStatusFunc func(ctx context.Context, userID uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error)
	GetStatusFunc func(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error)
	FindStaleFunc func(ctx context.Context, before time.Time) ([]domain.UserPresence, error)
}

func (m *MockPresenceRepository) SetStatus(ctx context.Context, userID uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, userID, status, customText)
	}
	return nil, nil
}

func (m *MockPresenceRepository) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.UserPresence, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockPresenceRepository) FindStale(ctx context.Context, before time.Time) ([]domain.UserPresence, error) {
	if m.FindStaleFunc != nil {
		return m.FindStaleFunc(ctx, before)
	}
	return nil, nil
}

var _ repository.PresenceRepository = (*MockPresenceRepository)(nil)

// MockPublisher records every publish and can be told to fail.
type MockPublisher struct {
	Err       error
	Published []PublishedEvent
}

type PublishedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

func (m *MockPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, PublishedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func strPtr(s string) *string {
	return &s
}

func TestPresenceService_SetStatus(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		req           *domain.UpdateStatusRequest
		mockRepo      func(*MockPresenceRepository)
		publisherErr  error
		wantErr       bool
		wantPublished int
		checkEvent    func(*testing.T, PublishedEvent)
	}{
		{
			name: "성공: 상태 변경 후 브로드캐스트",
			req:  &domain.UpdateStatusRequest{Status: domain.PresenceBusy},
			mockRepo: func(m *MockPresenceRepository) {
				m.SetStatusFunc = func(ctx context.Context, id uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
					return &domain.UserPresence{UserID: id, Status: status, CustomText: customText}, nil
				}
			},
			wantPublished: 1,
			checkEvent: func(t *testing.T, e PublishedEvent) {
				if e.Channel != PresenceChannel(userID) {
					t.Errorf("expected channel %s, got %s", PresenceChannel(userID), e.Channel)
				}
				if e.Event != domain.EventPresenceUpdate {
					t.Errorf("expected event %s, got %s", domain.EventPresenceUpdate, e.Event)
				}
				presence, ok := e.Payload.(*domain.UserPresence)
				if !ok {
					t.Fatalf("expected *domain.UserPresence payload, got %T", e.Payload)
				}
				if presence.Status != domain.PresenceBusy {
					t.Errorf("expected BUSY in payload, got %s", presence.Status)
				}
			},
		},
		{
			name: "성공: 브로드캐스트 실패해도 상태 변경은 성공",
			req:  &domain.UpdateStatusRequest{Status: domain.PresenceAway},
			mockRepo: func(m *MockPresenceRepository) {
				m.SetStatusFunc = func(ctx context.Context, id uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
					return &domain.UserPresence{UserID: id, Status: status}, nil
				}
			},
			publisherErr:  errors.New("redis down"),
			wantErr:       false,
			wantPublished: 0,
		},
		{
			name:    "실패: 알 수 없는 상태",
			req:     &domain.UpdateStatusRequest{Status: "SLEEPING"},
			wantErr: true,
		},
		{
			name: "실패: 저장 실패 시 브로드캐스트하지 않음",
			req:  &domain.UpdateStatusRequest{Status: domain.PresenceOnline},
			mockRepo: func(m *MockPresenceRepository) {
				m.SetStatusFunc = func(ctx context.Context, id uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
					return nil, errors.New("db down")
				}
			},
			wantErr:       true,
			wantPublished: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockPresenceRepository{}
			if tt.mockRepo != nil {
				tt.mockRepo(repo)
			}
			publisher := &MockPublisher{Err: tt.publisherErr}

			svc := NewPresenceService(repo, publisher, zap.NewNop())
			_, err := svc.SetStatus(context.Background(), userID, tt.req)

			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(publisher.Published) != tt.wantPublished {
				t.Fatalf("expected %d published events, got %d", tt.wantPublished, len(publisher.Published))
			}
			if tt.checkEvent != nil {
				tt.checkEvent(t, publisher.Published[0])
			}
		})
	}
}

func TestPresenceService_SetStatus_PersistBeforePublish(t *testing.T) {
	userID := uuid.New()
	var order []string

	repo := &MockPresenceRepository{
		SetStatusFunc: func(ctx context.Context, id uuid.UUID, status domain.PresenceStatus, customText *string) (*domain.UserPresence, error) {
			order = append(order, "persist")
			return &domain.UserPresence{UserID: id, Status: status}, nil
		},
	}
	publisher := &orderedPublisher{order: &order}

	svc := NewPresenceService(repo, publisher, zap.NewNop())
	if _, err := svc.SetStatus(context.Background(), userID, &domain.UpdateStatusRequest{Status: domain.PresenceOnline}); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	if len(order) != 2 || order[0] != "persist" || order[1] != "publish" {
		t.Errorf("expected persist before publish, got %v", order)
	}
}

type orderedPublisher struct {
	order *[]string
}

func (p *orderedPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	*p.order = append(*p.order, "publish")
	return nil
}

func TestPresenceService_GetStatus(t *testing.T) {
	userID := uuid.New()
	repo := &MockPresenceRepository{
		GetStatusFunc: func(ctx context.Context, id uuid.UUID) (*domain.UserPresence, error) {
			return &domain.UserPresence{UserID: id, Status: domain.PresenceCustom, CustomText: strPtr("in a meeting")}, nil
		},
	}

	svc := NewPresenceService(repo, &MockPublisher{}, zap.NewNop())
	presence, err := svc.GetStatus(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if presence.Status != domain.PresenceCustom {
		t.Errorf("expected CUSTOM, got %s", presence.Status)
	}
	if presence.CustomText == nil || *presence.CustomText != "in a meeting" {
		t.Errorf("expected custom text, got %v", presence.CustomText)
	}
}
