package dashboard

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/conflict-atlas/core/internal/middleware"
	"github.com/conflict-atlas/core/internal/models"
	"github.com/conflict-atlas/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const maxLayoutBytes = 256 << 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/dashboards", authMW)
	g.GET("/:conflictId", h.get)
	g.PUT("/:conflictId", h.save)
}

// GET /dashboards/:conflictId
func (h *Handler) get(c *gin.Context) {
	conflictID, ok := parseConflictID(c)
	if !ok {
		return
	}

	row, err := h.svc.Get(middleware.CurrentUserID(c), conflictID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if row == nil {
		response.NotFound(c, "no saved dashboard for this conflict")
		return
	}
	response.OK(c, row)
}

// PUT /dashboards/:conflictId
func (h *Handler) save(c *gin.Context) {
	conflictID, ok := parseConflictID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLayoutBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxLayoutBytes {
		response.BadRequest(c, "layout body is missing or too large")
		return
	}
	if !json.Valid(body) {
		response.BadRequest(c, "layout must be valid JSON")
		return
	}

	row, err := h.svc.Save(middleware.CurrentUserID(c), conflictID, models.JSON(body))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}

func parseConflictID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("conflictId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "conflict id must be a positive integer")
		return 0, false
	}
	return id, true
}
