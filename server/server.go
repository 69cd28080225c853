// Package server hosts the HTTP server shell.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/unv3iled/cortex/internal/profile"
	apiv1 "github.com/unv3iled/cortex/server/router/api/v1"
	"github.com/unv3iled/cortex/store"
)

// Server owns the echo instance and the wired API services.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

// NewServer creates and wires the server.
func NewServer(ctx context.Context, serverProfile *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = serverProfile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			slog.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(echomiddleware.TimeoutWithConfig(echomiddleware.TimeoutConfig{
		Timeout: 60 * time.Second,
	}))

	server := &Server{
		Profile:    serverProfile,
		Store:      st,
		echoServer: e,
	}

	server.apiService = apiv1.NewAPIV1Service(ctx, serverProfile, st)
	server.apiService.Register(e)

	return server, nil
}

// Start runs database migration and begins serving.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Store.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address), slog.String("version", s.Profile.Version))
	return s.echoServer.Start(address)
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}
	slog.Info("cortex stopped")
}
