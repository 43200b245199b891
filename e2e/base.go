package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"unimarket/api"
	"unimarket/observability"
	"unimarket/repositories"
	"unimarket/runtime"
	"unimarket/services"
	ws "unimarket/websocket"
)

// BaseSuite boots (or attaches to) a full server and offers HTTP and
// websocket helpers to scenario tests.
type BaseSuite struct {
	suite.Suite
	Config  Config
	baseURL string
	cleanup []func()
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr != "" {
		s.baseURL = s.Config.ServerAddr
		return
	}
	s.startServer()
}

func (s *BaseSuite) TearDownSuite() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// startServer assembles the whole stack on temporary storage, exactly as the
// server binary wires it.
func (s *BaseSuite) startServer() {
	req := s.Require()
	logger := logs.GetLoggerFromString("ERROR")

	badgerDir, err := os.MkdirTemp("", "e2e-badger-*")
	req.NoError(err)
	blugeDir, err := os.MkdirTemp("", "e2e-bluge-*")
	req.NoError(err)
	s.cleanup = append(s.cleanup, func() {
		_ = os.RemoveAll(badgerDir)
		_ = os.RemoveAll(blugeDir)
	})

	db, err := badger.Open(badger.DefaultOptions(badgerDir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	s.cleanup = append(s.cleanup, func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(blugeDir))
	req.NoError(err)
	s.cleanup = append(s.cleanup, func() { _ = blugeWriter.Close() })

	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger)
	adRepository := repositories.NewAdRepository(db, blugeWriter, logger)
	reportRepository := repositories.NewReportRepository(db)

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)
	connRegistry := runtime.NewRegistry()
	deliveryRouter := runtime.NewRouter(logger, connRegistry, metrics)
	directory := services.NewUserDirectory(userRepository)
	chatService := services.NewChatService(logger, directory, messageRepository, deliveryRouter, nil, metrics)
	authService := services.NewAuthService(userRepository, time.Hour)
	adService := services.NewAdService(adRepository, reportRepository)

	wsHandler := ws.NewHandler(directory, chatService, connRegistry, metrics, logger, 64)
	handler := api.NewRouter(
		logger, authService, adService, chatService, directory,
		userRepository, metrics, promRegistry, wsHandler,
	).Setup()

	server := httptest.NewServer(handler)
	s.cleanup = append(s.cleanup, server.Close)
	s.baseURL = server.URL
}

// Header prints a colorized banner so scenario steps stand out in the logs.
func (s *BaseSuite) Header(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// Request sends a JSON request, optionally authenticated, and decodes the
// reply into out when it is non-nil. It returns the HTTP status code.
func (s *BaseSuite) Request(t *testing.T, method, path, token string, body, out any) int {
	req := s.Require()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		req.NoError(err)
		reader = bytes.NewReader(data)
		s.debug(t, "-> %s %s %s", method, path, data)
	}

	httpReq, err := http.NewRequest(method, s.baseURL+path, reader)
	req.NoError(err)
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Token "+token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	req.NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	req.NoError(err)
	s.debug(t, "<- %d %s", resp.StatusCode, data)

	if out != nil && len(data) > 0 {
		req.NoError(json.Unmarshal(data, out))
	}
	return resp.StatusCode
}

// DialChat opens an authenticated chat session.
func (s *BaseSuite) DialChat(t *testing.T, token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.baseURL, "http") + "/ws/chat?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// ReadFrame reads one frame into out within a deadline.
func (s *BaseSuite) ReadFrame(t *testing.T, conn *websocket.Conn, out any) {
	req := s.Require()
	req.NoError(conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
	_, data, err := conn.ReadMessage()
	req.NoError(err)
	s.debug(t, "<~ %s", data)
	req.NoError(json.Unmarshal(data, out))
}

func (s *BaseSuite) debug(t *testing.T, format string, args ...any) {
	if !s.Config.DebugJSON {
		return
	}
	line := fmt.Sprintf(format, args...)
	if s.Config.Colours {
		line = color.New(color.FgCyan).Render(line)
	}
	t.Log(line)
}
