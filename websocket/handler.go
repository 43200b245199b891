package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"unimarket/contract"
	"unimarket/observability"
	"unimarket/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades /ws/chat requests into chat sessions. Authentication
// happens before the upgrade: a request without a resolvable ?token= is
// rejected with a plain 401 and never becomes a websocket.
type Handler struct {
	directory  services.IUserDirectory
	chat       services.IChatService
	registry   contract.IRegistry
	metrics    *observability.Metrics
	log        *slog.Logger
	bufferSize int
}

func NewHandler(
	directory services.IUserDirectory,
	chat services.IChatService,
	registry contract.IRegistry,
	metrics *observability.Metrics,
	log *slog.Logger,
	bufferSize int,
) *Handler {
	return &Handler{
		directory:  directory,
		chat:       chat,
		registry:   registry,
		metrics:    metrics,
		log:        log,
		bufferSize: bufferSize,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	user, err := h.directory.ResolveCredential(token)
	if err != nil {
		h.metrics.AuthFailures.Inc()
		h.log.Warn("websocket auth rejected", "remote", r.RemoteAddr)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error", "error", err)
		return
	}

	conn := NewConn(user, ws, h.registry, h.chat, h.metrics, h.log, h.bufferSize)
	conn.Start()
	h.log.Info("chat session opened", "user", user.ID)
}
