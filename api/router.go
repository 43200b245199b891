package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unimarket/errors"
	"unimarket/observability"
	"unimarket/repositories"
	"unimarket/services"
)

// Router wires the REST surface, the metrics endpoint and the chat upgrade
// path into a single http.Handler.
type Router struct {
	log       *slog.Logger
	auth      services.IAuthService
	ads       services.IAdService
	chat      services.IChatService
	directory services.IUserDirectory
	users     repositories.IUserRepository
	metrics   *observability.Metrics
	gatherer  prometheus.Gatherer
	wsChat    http.Handler
}

func NewRouter(
	log *slog.Logger,
	auth services.IAuthService,
	ads services.IAdService,
	chat services.IChatService,
	directory services.IUserDirectory,
	users repositories.IUserRepository,
	metrics *observability.Metrics,
	gatherer prometheus.Gatherer,
	wsChat http.Handler,
) *Router {
	return &Router{
		log:       log,
		auth:      auth,
		ads:       ads,
		chat:      chat,
		directory: directory,
		users:     users,
		metrics:   metrics,
		gatherer:  gatherer,
		wsChat:    wsChat,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))

	// Session auth rides the query string here, not the header.
	router.Handle("/ws/chat", rt.wsChat)

	router.Route("/api", func(r chi.Router) {
		r.Post("/users/signup", rt.signup)
		r.Post("/users/login", rt.login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(rt.directory, rt.metrics, rt.log))

			r.Get("/users", rt.listUsers)
			r.Put("/users/profile", rt.updateProfile)
			r.Post("/users/password", rt.changePassword)

			r.Route("/ads", func(r chi.Router) {
				r.Post("/", rt.createAd)
				r.Get("/", rt.listAds)
				r.Get("/search", rt.searchAds)
				r.Get("/{adID}", rt.getAd)
				r.Put("/{adID}", rt.updateAd)
				r.Delete("/{adID}", rt.deleteAd)
				r.Post("/{adID}/report", rt.reportAd)
			})

			r.Get("/chat/messages", rt.messageHistory)
			r.Get("/chat/conversations", rt.conversations)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, errors.MapToHTTPStatus(err), map[string]string{"error": err.Error()})
}
