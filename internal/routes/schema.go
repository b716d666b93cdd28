package routes

import (
	"github.com/gin-gonic/gin"

	"gridapi/internal/handlers"
)

type SchemaRoutes struct {
	schemaHandler *handlers.SchemaHandler
	tableHandler  *handlers.TableHandler
}

func NewSchemaRoutes(schemaHandler *handlers.SchemaHandler, tableHandler *handlers.TableHandler) *SchemaRoutes {
	return &SchemaRoutes{
		schemaHandler: schemaHandler,
		tableHandler:  tableHandler,
	}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/schemas", r.schemaHandler.ListSchemas)

	tables := router.Group("/schemas/:schema/tables")
	{
		tables.GET("", r.schemaHandler.ListTables)
		tables.GET("/:table", r.tableHandler.GetContent)
		tables.GET("/:table/meta", r.tableHandler.GetMeta)
		tables.GET("/:table/columns/:column", r.tableHandler.GetColumnContent)
		tables.PUT("/:table/data", r.tableHandler.InsertRow)
	}
}
