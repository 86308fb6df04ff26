package talents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/resumes"
	"creerlio-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches talent routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/talents", h.create)
	rg.GET("/talents/search", h.search)
	rg.GET("/talents/:id", h.get)
	rg.POST("/talents/from-resume/:resumeId", h.fromResume)
}

func (h *Handler) create(c *gin.Context) {
	var in Talent
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	in.ResumeID = nil
	t, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("talentId", t.ID)
	respond.Created(c, gin.H{"success": true, "talent": t})
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) search(c *gin.Context) {
	f := Filter{
		Query:    c.Query("query"),
		Skills:   ParseSkills(c.Query("skills")),
		Location: c.Query("location"),
		Skip:     queryInt(c, "skip", 0),
		Limit:    queryInt(c, "limit", defaultLimit),
	}
	out, err := h.Svc.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"talents": out, "count": len(out)})
}

func (h *Handler) fromResume(c *gin.Context) {
	if h.Svc.Resumes == nil {
		respond.Error(c, http.StatusNotImplemented, "not_configured", "resume source not configured", nil)
		return
	}
	t, err := h.Svc.CreateFromResume(c.Request.Context(), c.Param("resumeId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("talentId", t.ID)
	respond.Created(c, gin.H{"success": true, "talent": t})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "talent not found", nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "talent request failed", nil)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
