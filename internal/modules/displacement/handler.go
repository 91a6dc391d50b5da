package displacement

import (
	"strings"

	"github.com/conflict-atlas/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/displacement", h.latest)
}

// POST /displacement
func (h *Handler) latest(c *gin.Context) {
	var body struct {
		ISO3 string `json:"iso3"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.ISO3) == "" {
		response.BadRequest(c, "iso3 is required")
		return
	}

	snapshot, err := h.svc.Latest(c.Request.Context(), body.ISO3)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, snapshot)
}
