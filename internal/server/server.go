// Package server hosts Hansa Teutonica games for remote clients: a gin
// HTTP API, a websocket endpoint and one actor per running game.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/config"
	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/protocol"
	"hansa-teutonica/pkg/maps"
)

// Server is the main game server.
type Server struct {
	cfg      config.ServerConfig
	db       *database.DB
	hub      *Hub
	runtime  *Runtime
	handlers *Handlers
	engine   *gin.Engine
	mux      *http.ServeMux
	server   *http.Server
}

// New opens the database and builds the HTTP routes.
func New(cfg config.ServerConfig) (*Server, error) {
	if err := maps.LoadAll(); err != nil {
		return nil, errors.WithMessage(err, "failed to load maps")
	}
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open database")
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		cfg:     cfg,
		db:      db,
		hub:     NewHub(),
		runtime: NewRuntime(db, cfg.AskTimeout),
	}
	s.handlers = NewHandlers(db, s.hub, s.runtime)
	s.engine = s.routes()

	// coder/websocket needs the raw ResponseWriter; gin's wrapper corrupts
	// frames after the hijack.
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.Handle("/", s.engine)
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.GET("/maps", s.listMaps)
	api.GET("/games", s.listGames)
	api.POST("/games", s.createGame)
	api.GET("/games/:id", s.getGame)
	api.DELETE("/games/:id", s.deleteGame)
	api.GET("/games/:id/tensor", s.getTensor)
	api.GET("/games/:id/history", s.getHistory)
	return engine
}

// accessLog logs every request through zap.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logs.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens until Stop is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logs.Info("hansa server listening",
		zap.String("addr", s.cfg.Addr),
		zap.String("db", s.cfg.DBPath))

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.runtime.Shutdown()
	return s.db.Close()
}

// handleWebSocket upgrades the request and serves the client until it
// disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logs.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewClient(conn)
	s.hub.Register(client)
	go client.WritePump(ctx, s.cfg.PingInterval)

	client.ReadPump(ctx, func(c *Client, msg *protocol.Message) {
		s.handlers.Handle(ctx, c, msg)
	})
	s.hub.Unregister(client)
}
