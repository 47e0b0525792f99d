package routes

import (
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/handlers"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("/contacts", handlers.GetContacts)
		chat.GET("/messages", handlers.GetMessages) // ?userId=...
		chat.POST("/messages", middleware.SendRateLimit(), handlers.SendMessage)
	}
}
