package routes

import (
	"time"

	"whiteboard-service/internal/api/handlers"
	"whiteboard-service/internal/api/middleware"
	"whiteboard-service/internal/catalog"
	"whiteboard-service/internal/websocket"
	"whiteboard-service/internal/whiteboard"
	"whiteboard-service/pkg/logger"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the collaborators the HTTP surface needs. RateLimiter, Presence and
// HealthChecks are optional.
type Dependencies struct {
	Hub            *websocket.Hub
	Upgrader       *gorilla.Upgrader
	Coordinator    *whiteboard.Coordinator
	Catalog        catalog.Store
	RateLimiter    middleware.RateLimiter
	Presence       handlers.PresenceReader
	WSRateLimit    int
	WSRateWindow   time.Duration
	AllowedOrigins []string
	HealthChecks   map[string]handlers.Pinger
	Logger         *logger.Logger
}

type Router struct {
	engine          *gin.Engine
	wsHandler       *handlers.WSHandler
	templateHandler *handlers.TemplateHandler
	sessionHandler  *handlers.SessionHandler
	healthHandler   *handlers.HealthHandler
	presenceHandler *handlers.PresenceHandler
	rateLimitMW     *middleware.RateLimitMiddleware
	wsRateLimit     int
	wsRateWindow    time.Duration
}

func NewRouter(deps Dependencies) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(deps.AllowedOrigins))
	engine.Use(middleware.LogApi("/healthz"))

	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	var presenceHandler *handlers.PresenceHandler
	if deps.Presence != nil {
		presenceHandler = handlers.NewPresenceHandler(deps.Presence, log)
	}

	return &Router{
		engine:          engine,
		wsHandler:       handlers.NewWSHandler(deps.Hub, deps.Upgrader),
		templateHandler: handlers.NewTemplateHandler(deps.Catalog, log),
		sessionHandler:  handlers.NewSessionHandler(deps.Coordinator),
		healthHandler:   handlers.NewHealthHandler(deps.Coordinator, deps.HealthChecks),
		presenceHandler: presenceHandler,
		rateLimitMW:     middleware.NewRateLimitMiddleware(deps.RateLimiter, log),
		wsRateLimit:     deps.WSRateLimit,
		wsRateWindow:    deps.WSRateWindow,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", r.healthHandler.Healthz)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint, rate limited per client IP
	api.GET("/ws",
		r.rateLimitMW.RateLimitIP(r.wsRateLimit, r.wsRateWindow),
		r.wsHandler.HandleWebSocket,
	)

	api.GET("/templates", r.templateHandler.ListTemplates)
	api.GET("/sessions", r.sessionHandler.ListSessions)
	api.GET("/metrics", r.sessionHandler.GetMetrics)
	api.DELETE("/metrics", r.sessionHandler.ResetMetrics)

	// Mirrored presence only exists when Redis is configured
	if r.presenceHandler != nil {
		api.GET("/presence", r.presenceHandler.ListPresence)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
