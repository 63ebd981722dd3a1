package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"gorm.io/gorm"
)

func RegisterChatRoutes(r gin.IRouter, db *gorm.DB, h *handlers.ChatHandler) {
	auth := middleware.AuthMiddleware(db)

	chat := r.Group("/chat")
	chat.Use(auth)
	{
		chat.GET("/users", h.ListUsers)
		chat.GET("/:counterpartId", h.ShowConversation)
	}

	r.POST("/messages", auth, middleware.ChatRateLimit(), h.SendMessage)
}
