package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
	"github.com/pushp314/devconnect-chat/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter, h *handlers.AuthHandler) {
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}
