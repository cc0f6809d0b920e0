package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/LLM-Arena/internal/api/controller"
	"ctchen222/LLM-Arena/internal/hub"
)

var tracer = otel.Tracer("server")

const shutdownTimeout = 5 * time.Second

// Server exposes the arena over HTTP: a REST API for records and tournament
// control, and a websocket feed for spectators.
type Server struct {
	engine   *gin.Engine
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewServer wires the controllers and the spectator hub into a gin engine.
func NewServer(operatorCtl *controller.OperatorController, arenaCtl *controller.ArenaController, h *hub.Hub) *Server {
	s := &Server{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/operators/register", operatorCtl.Register)
		api.POST("/operators/login", operatorCtl.Login)

		api.GET("/leaderboard", arenaCtl.Leaderboard)
		api.GET("/matches", arenaCtl.ListMatches)
		api.GET("/games/:id", arenaCtl.GetGame)
		api.GET("/live", arenaCtl.LiveGames)

		api.POST("/tournaments", operatorCtl.AuthRequired(), arenaCtl.StartTournament)
		api.GET("/tournaments/:id", arenaCtl.TournamentStatus)
	}

	engine.GET("/ws", s.handleWebSocket)

	s.engine = engine
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleWebSocket upgrades the connection and hands it to the spectator hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		return
	}

	s.hub.ServeWS(conn)
}
