package pdf

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/resumes"
	"creerlio-backend/internal/shared/server/respond"
	"creerlio-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches PDF routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pdf/resume/:id", h.resume)
	rg.POST("/pdf/business/:id", h.business)
}

func (h *Handler) resume(c *gin.Context) {
	doc, err := h.Svc.ResumePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("resumeId", c.Param("id"))
	writeDocument(c, doc)
}

func (h *Handler) business(c *gin.Context) {
	doc, err := h.Svc.BusinessPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("businessId", c.Param("id"))
	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc Document) {
	body := gin.H{
		"success":    true,
		"pdf_base64": base64.StdEncoding.EncodeToString(doc.Bytes),
	}
	if doc.StorageKey != "" {
		body["storage_key"] = doc.StorageKey
	}
	respond.OK(c, body)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, businesses.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "business not found", nil)
	default:
		telemetry.Error("pdf.failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "pdf_generation_failed", "failed to generate PDF", nil)
	}
}
