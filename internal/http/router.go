package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pribylovaa/warranty-api/internal/catalog"
	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
	"github.com/pribylovaa/warranty-api/internal/http/handlers"
	"github.com/pribylovaa/warranty-api/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	BasePath       string // например, "/api"; если пустой — роуты регистрируются на корне.
	AllowedOrigins []string
	Metrics        *middleware.Metrics // nil — без метрик.
}

// AuthService — всё, что роутеру нужно от сервиса аутентификации.
type AuthService interface {
	handlers.AuthService
	middleware.Authorizer
}

const detailURLNotFound = "URL not found. Please check the URL or request."

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(auth AuthService, cat *catalog.Catalog, opts Options) http.Handler {
	root := chi.NewRouter()
	setFallbacks(root)

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
	)
	if opts.Metrics != nil {
		root.Use(opts.Metrics.Middleware())
	}
	root.Use(
		cors.Handler(corsOptions(opts.AllowedOrigins)),
		middleware.AuthBearer(),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(auth, cat)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		setFallbacks(sub)
		registerRoutes(sub, h, auth)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, auth)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, auth middleware.Authorizer) {
	// auth
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/auth/me", h.Me)
	r.Post("/auth/logout", h.Logout)

	// каталог доступен только с активной сессией
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(auth))
		h.CatalogRoutes(r)
	})
}

func setFallbacks(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, detailURLNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s not allowed on route %s", req.Method, req.URL.Path))
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apierrors.ErrorResponse{Detail: detail})
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}
}
