// Package rest exposes the use cases over a JSON HTTP API.
package rest

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"sportmeet/internal/ports/input"
)

// Translator localizes error descriptions and sport names.
type Translator interface {
	Match(preferences ...string) string
	T(locale, key string, data map[string]any) string
}

// Instrumenter wraps matched routes with metrics and serves the scrape endpoint.
type Instrumenter interface {
	Instrument(next http.Handler) http.Handler
	Handler() http.Handler
}

type Deps struct {
	Auth         input.AuthUseCase
	Events       input.EventUseCase
	Participants input.ParticipantUseCase
	Profile      input.ProfileUseCase
	Chat         input.ChatUseCase
	Translator   Translator
	Metrics      Instrumenter // optional
	Limiter      *RateLimiter // optional
	Log          zerolog.Logger
}

// Server holds the handlers of the HTTP API.
type Server struct {
	auth         input.AuthUseCase
	events       input.EventUseCase
	participants input.ParticipantUseCase
	profile      input.ProfileUseCase
	chat         input.ChatUseCase
	tr           Translator
	metrics      Instrumenter
	limiter      *RateLimiter
	validator    *validator.Validate
	log          zerolog.Logger
}

func NewServer(d Deps) *Server {
	return &Server{
		auth:         d.Auth,
		events:       d.Events,
		participants: d.Participants,
		profile:      d.Profile,
		chat:         d.Chat,
		tr:           d.Translator,
		metrics:      d.Metrics,
		limiter:      d.Limiter,
		validator:    newValidator(),
		log:          d.Log,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.fail(w, req, http.StatusNotFound, "route_not_found", "")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.fail(w, req, http.StatusMethodNotAllowed, "route_not_found", req.Method)
	})

	r.Use(s.recoverer, s.accessLog)
	if s.metrics != nil {
		r.Use(s.metrics.Instrument)
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	r.Use(s.identify, s.rateLimit)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/sports", s.listSports).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.requireUser(s.me)).Methods(http.MethodGet)

	r.HandleFunc("/events", s.listEvents).Methods(http.MethodGet)
	r.HandleFunc("/events", s.requireUser(s.createEvent)).Methods(http.MethodPost)
	r.HandleFunc("/events/my", s.requireUser(s.listMyEvents)).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", s.getEvent).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", s.requireUser(s.updateEvent)).Methods(http.MethodPatch)
	r.HandleFunc("/events/{id}", s.requireUser(s.deleteEvent)).Methods(http.MethodDelete)
	r.HandleFunc("/events/{id}/join", s.requireUser(s.join)).Methods(http.MethodPost)
	r.HandleFunc("/events/{id}/leave", s.requireUser(s.leave)).Methods(http.MethodPost)
	r.HandleFunc("/events/{id}/players", s.listPlayers).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}/status", s.requireUser(s.status)).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}/no-show", s.requireUser(s.reportNoShow)).Methods(http.MethodPost)
	r.HandleFunc("/events/{id}/messages", s.requireUser(s.listMessages)).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}/messages", s.requireUser(s.postMessage)).Methods(http.MethodPost)

	r.HandleFunc("/me", s.requireUser(s.updateProfile)).Methods(http.MethodPatch)
	r.HandleFunc("/me/stats", s.requireUser(s.stats)).Methods(http.MethodGet)
	r.HandleFunc("/me/push-token", s.requireUser(s.savePushToken)).Methods(http.MethodPost)

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	ok(w, map[string]string{"status": "up"})
}
