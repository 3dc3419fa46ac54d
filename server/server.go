package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"security-monitor/confs"
	"security-monitor/entities"
	"security-monitor/handlers"
	httpHandler "security-monitor/handlers/http"
	"security-monitor/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app *gin.Engine
	cfg *confs.Config
	svc *Services
	mgr *ws.Manager
}

func NewServer(cfg *confs.Config, svc *Services) *Server {
	s := &Server{
		app: gin.Default(),
		cfg: cfg,
		svc: svc,
		mgr: ws.NewManager(),
	}
	s.routes()
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.app }

func (s *Server) routes() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // Allow all origins for development
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "OK",
			"watchers": s.svc.Hub.Watchers(),
			"streams":  s.mgr.Count(),
		})
	})

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(s.svc.Auth, s.svc.Audit, s.svc.Tokens, s.mgr)
	clientHandler := httpHandler.NewClientHandler(s.svc.ClientUseCase)
	notificationHandler := httpHandler.NewNotificationHandler(s.svc.NotificationUC, s.svc.Auth, s.svc.Seeder)
	cameraHandler := httpHandler.NewCameraHandler()
	wsHandler := handlers.NewWSHandler(s.mgr, s.svc.Tokens, s.svc.Auth, s.svc.NotificationUC)
	auditHandler := handlers.NewAuditBufferHandler(s.svc.AuditProcessor)

	api := s.app.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	private := api.Group("")
	private.Use(httpHandler.JWTAuth(s.svc.Tokens))
	{
		private.POST("/auth/logout", authHandler.Logout)

		me := private.Group("/me")
		{
			me.GET("", authHandler.Me)
			me.PUT("/email", authHandler.ChangeEmail)
			me.PUT("/password", authHandler.ChangePassword)
			me.GET("/audit", authHandler.AuditTrail)
		}

		private.GET("/cameras", cameraHandler.List)

		notifications := private.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		clients := private.Group("/clients")
		{
			staff := httpHandler.RequireRole(entities.RoleManager, entities.RoleAdmin)
			clients.POST("", clientHandler.RegisterClient)
			clients.GET("", staff, clientHandler.Search)
			clients.GET("/:id/houses", staff, clientHandler.Houses)
			clients.DELETE("/:id", staff, clientHandler.DeleteClient)
		}

		admin := private.Group("", httpHandler.RequireRole(entities.RoleAdmin))
		{
			admin.GET("/streams", wsHandler.GetConnectedUsers) // Users with an open notification stream
			admin.GET("/audit/buffer", auditHandler.GetBufferStats)
			admin.POST("/audit/flush", auditHandler.FlushBuffer)
			admin.POST("/audit/prune", auditHandler.Prune)
		}
	}

	s.app.GET("/ws/notifications", wsHandler.HandleNotificationsWS)
}

// Start serves until ctx is done, then shuts down and closes live streams.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.app,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", s.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	for _, userID := range s.mgr.List() {
		s.mgr.CloseUser(userID)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
