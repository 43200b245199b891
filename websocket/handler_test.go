package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"unimarket/auth"
	"unimarket/domain/chat"
	"unimarket/errors"
	"unimarket/mocks"
	"unimarket/observability"
	"unimarket/repositories"
	"unimarket/runtime"
	"unimarket/services"
)

type chatStack struct {
	server   *httptest.Server
	users    *mocks.MockIUserRepository
	messages *mocks.MockIMessageRepository
}

func newChatStack(t *testing.T) chatStack {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := slog.Default()

	users := mocks.NewMockIUserRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, metrics)
	directory := services.NewUserDirectory(users)
	chatService := services.NewChatService(log, directory, messages, router, nil, metrics)

	handler := NewHandler(directory, chatService, registry, metrics, log, 16)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return chatStack{server: server, users: users, messages: messages}
}

func (s chatStack) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

// Registration happens on the server goroutine right after the handshake;
// give it a moment before relying on registry state.
func waitForRegistration() {
	time.Sleep(100 * time.Millisecond)
}

func issueToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []string{"user"}, time.Hour)
	require.NoError(t, err)
	return token
}

func readEnvelope(t *testing.T, ws *websocket.Conn, out any) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestHandler_RejectsBeforeUpgrade(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(stack.server.URL)
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, err := http.Get(stack.server.URL + "?token=not-a-jwt")
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid signature over a deleted account", func(t *testing.T) {
		stack.users.EXPECT().GetUserByID("gone").Return(repositories.User{}, errors.ErrUserNotFound)
		resp, err := http.Get(stack.server.URL + "?token=" + issueToken(t, "gone"))
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHandler_EchoAndForward(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	alice := repositories.User{ID: "alice-id", Username: "alice"}
	bob := repositories.User{ID: "bob-id", Username: "bob"}
	stack.users.EXPECT().GetUserByID("alice-id").Return(alice, nil).AnyTimes()
	stack.users.EXPECT().GetUserByID("bob-id").Return(bob, nil).AnyTimes()

	stored := chat.Message{
		ID:         uuid.New(),
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
		Text:       "hello bob",
		CreatedAt:  time.Now().UTC(),
	}
	stack.messages.EXPECT().Append(alice.ID, bob.ID, "hello bob").Return(stored, nil)

	aliceWS := stack.dial(t, issueToken(t, "alice-id"))
	bobWS := stack.dial(t, issueToken(t, "bob-id"))
	waitForRegistration()

	req.NoError(aliceWS.WriteJSON(map[string]string{"message": "hello bob", "receiver": "bob-id"}))

	var echoed, forwarded chat.Envelope
	readEnvelope(t, aliceWS, &echoed)
	readEnvelope(t, bobWS, &forwarded)

	req.Equal(stored.ID.String(), echoed.ID)
	req.Equal(echoed, forwarded)
	req.Equal("alice", forwarded.SenderName)
	req.Equal("hello bob", forwarded.Text)
}

func TestHandler_LongMessageSurvivesTheSession(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	alice := repositories.User{ID: "alice-id", Username: "alice"}
	bob := repositories.User{ID: "bob-id", Username: "bob"}
	stack.users.EXPECT().GetUserByID("alice-id").Return(alice, nil).AnyTimes()
	stack.users.EXPECT().GetUserByID("bob-id").Return(bob, nil).AnyTimes()

	longText := strings.Repeat("a very long story ", 300)
	stack.messages.EXPECT().
		Append(alice.ID, bob.ID, longText).
		Return(chat.Message{ID: uuid.New(), SenderID: alice.ID, ReceiverID: bob.ID, Text: longText, CreatedAt: time.Now().UTC()}, nil)
	stack.messages.EXPECT().
		Append(alice.ID, bob.ID, "still here").
		Return(chat.Message{ID: uuid.New(), SenderID: alice.ID, ReceiverID: bob.ID, Text: "still here", CreatedAt: time.Now().UTC()}, nil)

	aliceWS := stack.dial(t, issueToken(t, "alice-id"))

	req.NoError(aliceWS.WriteJSON(map[string]string{"message": longText, "receiver": "bob-id"}))

	var echoed chat.Envelope
	readEnvelope(t, aliceWS, &echoed)
	req.Equal(longText, echoed.Text)

	// The connection must remain usable for the next message.
	req.NoError(aliceWS.WriteJSON(map[string]string{"message": "still here", "receiver": "bob-id"}))
	readEnvelope(t, aliceWS, &echoed)
	req.Equal("still here", echoed.Text)
}

func TestHandler_OfflineReceiverStillEchoes(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	alice := repositories.User{ID: "alice-id", Username: "alice"}
	bob := repositories.User{ID: "bob-id", Username: "bob"}
	stack.users.EXPECT().GetUserByID("alice-id").Return(alice, nil).AnyTimes()
	stack.users.EXPECT().GetUserByID("bob-id").Return(bob, nil).AnyTimes()

	stack.messages.EXPECT().
		Append(alice.ID, bob.ID, "are you there").
		Return(chat.Message{ID: uuid.New(), SenderID: alice.ID, ReceiverID: bob.ID, Text: "are you there", CreatedAt: time.Now().UTC()}, nil)

	aliceWS := stack.dial(t, issueToken(t, "alice-id"))

	req.NoError(aliceWS.WriteJSON(map[string]string{"message": "are you there", "receiver": "bob-id"}))

	var echoed chat.Envelope
	readEnvelope(t, aliceWS, &echoed)
	req.Equal("are you there", echoed.Text)
}

func TestHandler_UnknownReceiverError(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	alice := repositories.User{ID: "alice-id", Username: "alice"}
	stack.users.EXPECT().GetUserByID("alice-id").Return(alice, nil).AnyTimes()
	stack.users.EXPECT().GetUserByID("ghost").Return(repositories.User{}, errors.ErrUserNotFound)

	aliceWS := stack.dial(t, issueToken(t, "alice-id"))

	req.NoError(aliceWS.WriteJSON(map[string]string{"message": "hi", "receiver": "ghost"}))

	var reply map[string]string
	readEnvelope(t, aliceWS, &reply)
	req.Equal("Receiver not found.", reply["error"])
}

func TestHandler_ReceiverlessEcho(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	alice := repositories.User{ID: "alice-id", Username: "alice"}
	stack.users.EXPECT().GetUserByID("alice-id").Return(alice, nil).AnyTimes()

	aliceWS := stack.dial(t, issueToken(t, "alice-id"))

	req.NoError(aliceWS.WriteJSON(map[string]string{"message": "note to self"}))

	var reply map[string]string
	readEnvelope(t, aliceWS, &reply)
	req.Equal("note to self", reply["message"])
}

func TestHandler_SecondConnectionTakesOver(t *testing.T) {
	req := require.New(t)
	stack := newChatStack(t)

	alice := repositories.User{ID: "alice-id", Username: "alice"}
	bob := repositories.User{ID: "bob-id", Username: "bob"}
	stack.users.EXPECT().GetUserByID("alice-id").Return(alice, nil).AnyTimes()
	stack.users.EXPECT().GetUserByID("bob-id").Return(bob, nil).AnyTimes()

	stack.messages.EXPECT().
		Append(alice.ID, bob.ID, "ping").
		Return(chat.Message{ID: uuid.New(), SenderID: alice.ID, ReceiverID: bob.ID, Text: "ping", CreatedAt: time.Now().UTC()}, nil)

	first := stack.dial(t, issueToken(t, "bob-id"))
	waitForRegistration()
	second := stack.dial(t, issueToken(t, "bob-id"))
	aliceWS := stack.dial(t, issueToken(t, "alice-id"))
	waitForRegistration()

	req.NoError(aliceWS.WriteJSON(map[string]string{"message": "ping", "receiver": "bob-id"}))

	var forwarded chat.Envelope
	readEnvelope(t, second, &forwarded)
	req.Equal("ping", forwarded.Text)

	// The replaced session must stay silent.
	req.NoError(first.SetReadDeadline(time.Now().Add(300 * time.Millisecond)))
	_, _, err := first.ReadMessage()
	req.Error(err)
}
