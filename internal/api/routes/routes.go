package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yoockh/nebula/internal/api/handlers"
)

type Deps struct {
	Webhook *handlers.WebhookHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/webhook", d.Webhook.Handle)
}
