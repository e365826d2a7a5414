package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/session"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	m := NewManager()

	sess, err := m.Create(ctx, "simple-agent", "user", "")
	require.NoError(t, err)

	_, err = uuid.Parse(sess.ID())
	assert.NoError(t, err)

	got, err := m.Service().Get(ctx, &session.GetRequest{
		AppName:   "simple-agent",
		UserID:    "user",
		SessionID: sess.ID(),
	})
	require.NoError(t, err)
	assert.Equal(t, sess.ID(), got.Session.ID())

	other, err := m.Create(ctx, "simple-agent", "user", "")
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID(), other.ID())
}

func TestCreateKeepsGivenID(t *testing.T) {
	ctx := context.Background()
	m := NewManager()

	sess, err := m.Create(ctx, "simple-agent", "user", "thread-123")
	require.NoError(t, err)
	assert.Equal(t, "thread-123", sess.ID())

	got, err := m.Service().Get(ctx, &session.GetRequest{
		AppName:   "simple-agent",
		UserID:    "user",
		SessionID: "thread-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "thread-123", got.Session.ID())
}
