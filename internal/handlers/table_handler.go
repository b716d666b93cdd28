package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gridapi/internal/responses"
	"gridapi/internal/services"
	"gridapi/internal/validation"
)

type TableHandler struct {
	metadataService *services.MetadataService
	browseService   *services.BrowseService
	insertService   *services.InsertService
}

func NewTableHandler(
	metadataService *services.MetadataService,
	browseService *services.BrowseService,
	insertService *services.InsertService,
) *TableHandler {
	return &TableHandler{
		metadataService: metadataService,
		browseService:   browseService,
		insertService:   insertService,
	}
}

// GetMeta handles GET /api/v1/schemas/:schema/tables/:table/meta
func (h *TableHandler) GetMeta(c *gin.Context) {
	schemaName, table := c.Param("schema"), c.Param("table")

	meta, err := h.metadataService.Meta(c.Request.Context(), schemaName, table)
	if err != nil {
		responses.FailFromError(c, err, "Failed to assemble table metadata")
		return
	}

	responses.Success(c, http.StatusOK, meta, "")
}

// GetContent handles GET /api/v1/schemas/:schema/tables/:table
func (h *TableHandler) GetContent(c *gin.Context) {
	schemaName, table := c.Param("schema"), c.Param("table")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		responses.Fail(c, http.StatusBadRequest, err, "page must be an integer of at least 1")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if err != nil || limit < 1 {
		responses.Fail(c, http.StatusBadRequest, err, "limit must be a positive integer")
		return
	}
	sort := c.Query("sort")

	rows, err := h.browseService.Content(c.Request.Context(), schemaName, table, page, limit, sort)
	if err != nil {
		responses.FailFromError(c, err, "Failed to read table content")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"rows":  rows,
		"page":  page,
		"limit": limit,
	}, "")
}

// GetColumnContent handles GET /api/v1/schemas/:schema/tables/:table/columns/:column
func (h *TableHandler) GetColumnContent(c *gin.Context) {
	schemaName, table, column := c.Param("schema"), c.Param("table"), c.Param("column")

	values, err := h.browseService.ColumnContent(c.Request.Context(), schemaName, table, column)
	if err != nil {
		responses.FailFromError(c, err, "Failed to read column content")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"column": column,
		"values": values,
	}, "")
}

// InsertRow handles PUT /api/v1/schemas/:schema/tables/:table/data
func (h *TableHandler) InsertRow(c *gin.Context) {
	schemaName, table := c.Param("schema"), c.Param("table")

	var body map[string][]validation.Row
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	if len(body) == 0 {
		responses.Fail(c, http.StatusBadRequest, nil, "At least one row is required")
		return
	}

	if err := h.insertService.InsertRow(c.Request.Context(), schemaName, table, body); err != nil {
		responses.FailFromError(c, err, "Failed to insert rows")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Rows inserted successfully")
}
