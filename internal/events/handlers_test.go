package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentDeletedHandlerLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	env, err := Decode([]byte(`{"event_type":"comment_deleted","comment_id":"c7","game_id":"3498","user_id":"u1"}`))
	require.NoError(t, err)
	require.NoError(t, CommentDeletedHandler(logger)(context.Background(), env))

	out := buf.String()
	assert.Contains(t, out, "comment deleted")
	assert.Contains(t, out, "comment_id=c7")
	assert.Contains(t, out, "game_id=3498")
}

func TestCommentDeletedHandlerRejectsWrongShape(t *testing.T) {
	env, err := Decode([]byte(`{"event_type":"comment_deleted","comment_id":{"id":7}}`))
	require.NoError(t, err)
	assert.ErrorIs(t, CommentDeletedHandler(nil)(context.Background(), env), ErrMalformedEnvelope)
}

func TestCommentDeletedHandlerAcceptsNumericIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	env, err := Decode([]byte(`{"event_type":"comment_deleted","comment_id":42,"game_id":"3498","user_id":7}`))
	require.NoError(t, err)
	require.NoError(t, CommentDeletedHandler(logger)(context.Background(), env))

	out := buf.String()
	assert.Contains(t, out, "comment_id=42")
	assert.Contains(t, out, "game_id=3498")
	assert.Contains(t, out, "user_id=7")

	var evt CommentDeleted
	require.NoError(t, env.Decode(&evt))
	assert.Equal(t, CommentDeleted{CommentID: "42", GameID: "3498", UserID: "7"}, evt)
}

func TestGameEventLoggerAcceptsOwnEvents(t *testing.T) {
	env, err := Decode([]byte(`{"event_type":"game_synced","game_id":"1","rawg_id":1}`))
	require.NoError(t, err)
	assert.NoError(t, GameEventLogger(nil)(context.Background(), env))
}
