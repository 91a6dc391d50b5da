package summary

import (
	"errors"
	"math"
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
	rg.POST("/summary", h.getOrGenerate)
}

// summaryRequest is the wire shape. Ids arrive as JSON numbers and are
// validated before any cache or provider traffic.
type summaryRequest struct {
	ConflictID   *float64 `json:"conflictId"`
	CountryID    *float64 `json:"countryId"`
	ConflictName string   `json:"conflictName"`
	CountryName  string   `json:"countryName"`
	ForceRefresh bool     `json:"forceRefresh"`
}

// POST /summary
func (h *Handler) getOrGenerate(c *gin.Context) {
	var body summaryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	req := Request{
		ConflictName: strings.TrimSpace(body.ConflictName),
		CountryName:  strings.TrimSpace(body.CountryName),
		ForceRefresh: body.ForceRefresh,
	}
	var ok bool
	if req.ConflictID, ok = validID(body.ConflictID); !ok {
		response.BadRequest(c, "conflictId must be a positive integer")
		return
	}
	if req.CountryID, ok = validID(body.CountryID); !ok {
		response.BadRequest(c, "countryId must be a positive integer")
		return
	}

	result, err := h.svc.GetOrGenerate(c.Request.Context(), req)
	if err != nil {
		var genErr *GenerationError
		switch {
		case errors.Is(err, ErrMissingSubject):
			response.BadRequest(c, ErrMissingSubject.Error())
		case errors.Is(err, ErrNotConfigured):
			response.InternalError(c, ErrNotConfigured)
		case errors.As(err, &genErr):
			response.InternalErrorBody(c, gin.H{
				"error":        "AI generation failed",
				"openaiStatus": genErr.Status,
				"openaiBody":   genErr.Body,
			})
		case errors.Is(err, ErrEmptySummary):
			response.InternalError(c, ErrEmptySummary)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// validID converts an optional JSON number to an id pointer. Absent is fine;
// present but non-finite, non-integral, or non-positive is not.
func validID(raw *float64) (*int64, bool) {
	if raw == nil {
		return nil, true
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v <= 0 {
		return nil, false
	}
	id := int64(v)
	return &id, true
}
