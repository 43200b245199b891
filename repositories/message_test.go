package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Append_Assigns_ID_And_Timestamp(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	message, err := repository.Append("alice", "bob", "hi bob")
	req.NoError(err)
	req.NotEqual(uuid.Nil, message.ID)
	req.False(message.CreatedAt.IsZero())
	req.Equal("alice", message.SenderID)
	req.Equal("bob", message.ReceiverID)
	req.Equal("hi bob", message.Text)
}

func Test_Append_Timestamps_Are_Monotonic(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	var last int64
	for i := 0; i < 50; i++ {
		message, err := repository.Append("alice", "bob", "tick")
		req.NoError(err)
		nanos := message.CreatedAt.UnixNano()
		req.GreaterOrEqual(nanos, last)
		last = nanos
	}
}

func Test_ForUser_Returns_Sent_And_Received(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	first, err := repository.Append("alice", "bob", "hello")
	req.NoError(err)
	second, err := repository.Append("bob", "alice", "hey back")
	req.NoError(err)
	_, err = repository.Append("clara", "dave", "unrelated")
	req.NoError(err)

	messages, err := repository.ForUser("alice")
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(first, messages[0])
	req.Equal(second, messages[1])

	messages, err = repository.ForUser("dave")
	req.NoError(err)
	req.Len(messages, 1)

	messages, err = repository.ForUser("nobody")
	req.NoError(err)
	req.Empty(messages)
}

func Test_ForUser_Chronological_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	for i := 0; i < 10; i++ {
		sender, receiver := "alice", "bob"
		if i%2 == 1 {
			sender, receiver = "bob", "alice"
		}
		_, err := repository.Append(sender, receiver, "msg")
		req.NoError(err)
	}

	messages, err := repository.ForUser("alice")
	req.NoError(err)
	req.Len(messages, 10)
	for i := 1; i < len(messages); i++ {
		req.False(messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func Test_Self_Message_Stored_Once(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	_, err := repository.Append("alice", "alice", "note to self")
	req.NoError(err)

	messages, err := repository.ForUser("alice")
	req.NoError(err)
	req.Len(messages, 1)
}
