package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridapi/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, schemaHandler *handlers.SchemaHandler, tableHandler *handlers.TableHandler) {
	api := router.Group("/api/v1")

	schemaRoutes := NewSchemaRoutes(schemaHandler, tableHandler)
	schemaRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
