package routes

import (
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/handlers"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterBoardRoutes(r gin.IRouter) {
	board := r.Group("/board")
	board.Use(middleware.AuthMiddleware())
	{
		board.GET("/messages", handlers.GetBoardMessages)
		board.POST("/messages", middleware.SendRateLimit(), handlers.PostBoardMessage)
	}
}
