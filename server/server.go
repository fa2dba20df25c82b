// Package server is the web front end: an HTML form, the rendered roadmap and a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	"github.com/tbxark/roadmapagent/agent"
)

type Config struct {
	Addr           string
	SessionSecret  string
	SecureCookie   bool
	AllowedOrigins []string
}

type Server struct {
	conf     Config
	flow     *agent.RoadmapFlow
	echo     *echo.Echo
	sessions sessions.Store
	handler  http.Handler
}

// New 创建 HTTP 服务并注册所有路由
func New(flow *agent.RoadmapFlow, conf Config) (*Server, error) {
	renderer, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	secret := []byte(conf.SessionSecret)
	if len(secret) == 0 {
		slog.Warn("No session secret configured, sessions will not survive a restart")
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8,
		HttpOnly: true,
		Secure:   conf.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.JSONSerializer = sonicSerializer{}
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("HTTP request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	s := &Server{
		conf:     conf,
		flow:     flow,
		echo:     e,
		sessions: store,
	}
	s.routes()

	s.handler = e
	if len(conf.AllowedOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins:   conf.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(e)
	}
	return s, nil
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", s.health)

	web := e.Group("", s.session)
	web.GET("/", s.index)
	web.POST("/key", s.configureKey)
	web.POST("/generate", s.generate)
	web.POST("/demo", s.demo)
	web.POST("/reset", s.reset)

	api := e.Group("/api", s.session)
	api.POST("/key", s.apiConfigureKey)
	api.POST("/roadmaps", s.apiGenerate)
	api.GET("/roadmap", s.apiCurrent)
	api.POST("/demo", s.apiDemo)
	api.DELETE("/roadmap", s.apiReset)
	api.GET("/schema", s.apiSchema)
	api.GET("/schema/request", s.apiRequestSchema)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.conf.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Roadmap server listening", "addr", s.conf.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
