package webapi

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/devfulton/footy-bingo/internal/adapter/bingopresenter"
	"github.com/devfulton/footy-bingo/internal/eventcat"
	"github.com/devfulton/footy-bingo/internal/fixtures"
	"github.com/devfulton/footy-bingo/internal/msgcat"
	"github.com/devfulton/footy-bingo/internal/service/bingo"
	"github.com/devfulton/footy-bingo/internal/service/cache"
	"github.com/devfulton/footy-bingo/web"
)

type Config struct {
	AllowedOrigins []string
}

// Server wires the bingo service behind a chi router: the JSON API, the
// embedded web UI and the session cookie that keys everything.
type Server struct {
	service   *bingo.Service
	fixtures  *fixtures.Service
	cache     *cache.CacheService
	events    *eventcat.Catalog
	messages  *msgcat.Catalog
	formatter *bingopresenter.Formatter
	cfg       Config
	logger    *zap.Logger

	router chi.Router
	index  *template.Template
}

func NewServer(service *bingo.Service, fixtureSvc *fixtures.Service, cacheSvc *cache.CacheService, events *eventcat.Catalog, messages *msgcat.Catalog, cfg Config, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("bingo service is required")
	}
	if fixtureSvc == nil {
		return nil, fmt.Errorf("fixtures service is required")
	}
	if cacheSvc == nil {
		return nil, fmt.Errorf("cache service is required")
	}
	if events == nil {
		return nil, fmt.Errorf("event catalog is required")
	}
	if messages == nil {
		return nil, fmt.Errorf("message catalog is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	index, err := template.ParseFS(web.Assets, "templates/index.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	s := &Server{
		service:   service,
		fixtures:  fixtureSvc,
		cache:     cacheSvc,
		events:    events,
		messages:  messages,
		formatter: bingopresenter.NewFormatter(messages),
		cfg:       cfg,
		logger:    logger,
		index:     index,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	origins := append([]string(nil), s.cfg.AllowedOrigins...)
	allowCredentials := true
	if len(origins) == 0 {
		origins = []string{"*"}
		allowCredentials = false
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessionCookie)

		r.Get("/events", s.handleEvents)
		r.Get("/fixtures", s.handleFixtures)
		r.Get("/fixtures/{fixtureID}/roster", s.handleRoster)

		r.Post("/session/start", s.handleStartSession)
		r.Get("/session", s.handleSessionStatus)
		r.Delete("/session", s.handleClearSession)
		r.Post("/session/players", s.handleSetPlayers)
		r.Post("/session/squares", s.handleAddSquare)
		r.Post("/session/squares/undo", s.handleUndoSquare)
		r.Post("/session/board", s.handleGenerateBoard)
		r.Post("/session/board/toggle", s.handleToggleSquare)
		r.Get("/session/board/share", s.handleShare)
		r.Get("/session/board/card.png", s.handleCard)
	})

	return r
}
