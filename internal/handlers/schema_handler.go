package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridapi/internal/responses"
	"gridapi/internal/services"
)

type SchemaHandler struct {
	browseService *services.BrowseService
}

func NewSchemaHandler(browseService *services.BrowseService) *SchemaHandler {
	return &SchemaHandler{
		browseService: browseService,
	}
}

// ListSchemas handles GET /api/v1/schemas
func (h *SchemaHandler) ListSchemas(c *gin.Context) {
	schemas, err := h.browseService.Schemas(c.Request.Context())
	if err != nil {
		responses.FailFromError(c, err, "Failed to list schemas")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"schemas": schemas}, "")
}

// ListTables handles GET /api/v1/schemas/:schema/tables
func (h *SchemaHandler) ListTables(c *gin.Context) {
	schemaName := c.Param("schema")
	if schemaName == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "Schema name is required")
		return
	}

	tables, err := h.browseService.Tables(c.Request.Context(), schemaName)
	if err != nil {
		responses.FailFromError(c, err, "Failed to list tables")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"schema": schemaName,
		"tables": tables,
	}, "")
}
