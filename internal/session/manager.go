package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/session"
)

// Manager manages agent sessions
type Manager struct {
	service session.Service
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		service: session.InMemoryService(),
	}
}

// Create creates a new session. An empty sessionID gets a random one, so
// callers holding an external conversation id can reuse it for the session.
func (m *Manager) Create(ctx context.Context, appName, userID, sessionID string) (session.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sessResp, err := m.service.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		var zeroSess session.Session
		return zeroSess, fmt.Errorf("failed to create session: %w", err)
	}

	return sessResp.Session, nil
}

// Service returns the underlying session service
func (m *Manager) Service() session.Service {
	return m.service
}
