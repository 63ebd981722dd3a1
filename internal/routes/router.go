package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"github.com/pushp314/devconnect-chat/internal/realtime"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps is everything the router needs. Socket and Hub may be nil, in which
// case their transport routes are not mounted.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Chat        *services.ChatService
	Socket      *realtime.SocketServer
	Hub         *realtime.Hub
	FrontendURL string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(d.FrontendURL))
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	api.Use(middleware.GeneralRateLimit())
	{
		RegisterAuthRoutes(api, handlers.NewAuthHandler(d.DB))
		RegisterChatRoutes(api, d.DB, handlers.NewChatHandler(d.Chat))
	}

	r.GET("/health", handlers.Health(d.DB, d.Redis))

	if d.Socket != nil {
		r.GET("/socket.io/*any", d.Socket.Handler())
		r.POST("/socket.io/*any", d.Socket.Handler())
	}
	if d.Hub != nil {
		r.GET("/ws", d.Hub.Handler(utils.Authenticate))
	}

	return r
}
