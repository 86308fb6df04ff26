package businesses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service. WriteGuard protects updates and
// AdminGuard protects deletes; nil guards allow every caller.
type Handler struct {
	Svc        *Service
	WriteGuard gin.HandlerFunc
	AdminGuard gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches business routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/businesses", h.create)
	rg.GET("/businesses/search", h.search)
	rg.GET("/businesses/:id", h.get)
	rg.PUT("/businesses/:id", guarded(h.WriteGuard, h.update)...)
	rg.DELETE("/businesses/:id", guarded(h.AdminGuard, h.delete)...)
}

func guarded(guard, handler gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{guard, handler}
}

func (h *Handler) create(c *gin.Context) {
	var in Business
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("businessId", b.ID)
	respond.Created(c, gin.H{"success": true, "business": b})
}

func (h *Handler) get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, b)
}

func (h *Handler) update(c *gin.Context) {
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("businessId", b.ID)
	respond.OK(c, gin.H{"success": true, "business": b})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Business deleted"})
}

func (h *Handler) search(c *gin.Context) {
	f := Filter{
		Query:    c.Query("query"),
		Location: c.Query("location"),
		Skip:     queryInt(c, "skip", 0),
		Limit:    queryInt(c, "limit", defaultLimit),
	}
	out, err := h.Svc.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"businesses": out, "count": len(out)})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "business not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "business request failed", nil)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
