// Package devserver is a local stand-in for the church API. It issues
// short-lived HMAC access tokens with rotating refresh tokens and serves
// in-memory resource collections, so the client can be exercised end to end.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/jrsteele09/go-church-admin/token"
	"github.com/jrsteele09/go-church-admin/token/refresh"
	"github.com/jrsteele09/go-church-admin/users"
)

type Config interface {
	config.EnvConfig
	config.DevServerConfig
}

type Server struct {
	env     string
	config  Config
	router  chi.Router
	handler http.Handler
	users   users.Repo
	refresh *refresh.Manager
	creator *token.Creator
	store   *Store
	logger  zerolog.Logger
}

func New(cfg Config, userRepo users.Repo, refreshRepo refresh.Repo, logger zerolog.Logger) (*Server, error) {
	if cfg.GetJWTSecret() == "" {
		return nil, fmt.Errorf("[devserver New] JWT secret is required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		config:  cfg,
		users:   userRepo,
		refresh: refresh.NewManager(refreshRepo, cfg),
		creator: token.NewCreator(token.NewHMACSigner(cfg.GetJWTSecret()), cfg.GetAccessTokenExpiry()),
		store:   NewStore(),
		logger:  logger,
	}

	s.router = s.initRoutes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.GetAllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(s.router)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Store exposes the resource collections, for seeding.
func (s *Server) Store() *Store {
	return s.store
}

// InitialiseSystem seeds accounts and sample data. It returns the password
// given to the seeded accounts.
func (s *Server) InitialiseSystem(ctx context.Context) (string, error) {
	password, err := s.seedUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("[devserver InitialiseSystem] %w", err)
	}
	s.seedResources()
	s.logRoutes()
	return password, nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		s.logger.Info().Msgf("[%-16s] %s", colourMethod(method), strings.TrimSuffix(route, "/"))
		return nil
	})
}
