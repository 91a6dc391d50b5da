package events

import (
	"errors"
	"strconv"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, cacheMW gin.HandlerFunc) {
	rg.GET("/events", cacheMW, h.list)
	rg.GET("/countries/:id/iso3", cacheMW, h.iso3)
}

// GET /events?country=N&start=YYYY-MM-DD&end=YYYY-MM-DD&type=1,2,3
func (h *Handler) list(c *gin.Context) {
	q := Query{
		StartDate: strings.TrimSpace(c.Query("start")),
		EndDate:   strings.TrimSpace(c.Query("end")),
	}
	if raw := strings.TrimSpace(c.Query("country")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "country must be a positive integer")
			return
		}
		q.CountryID = id
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			code, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				response.BadRequest(c, "type must be a comma-separated list of integers")
				return
			}
			q.TypeOfViolence = append(q.TypeOfViolence, code)
		}
	}

	evts, err := h.svc.Recent(c.Request.Context(), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if evts == nil {
		evts = []Event{}
	}
	response.OK(c, gin.H{"events": evts, "count": len(evts)})
}

// GET /countries/:id/iso3
func (h *Handler) iso3(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "country id must be a positive integer")
		return
	}

	iso3, err := h.svc.Iso3ForCountry(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCountryUnresolved) {
			response.NotFound(c, ErrCountryUnresolved.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"iso3": iso3})
}
