package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/ingest"
	"creerlio-backend/internal/shared/server/middleware"
	"creerlio-backend/internal/shared/server/respond"
	"creerlio-backend/internal/shared/util"
)

// multipart overhead allowed on top of the file limit
const formOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/enhance", h.enhance)
}

// ResumeResponse is the outward-facing representation of a stored resume.
type ResumeResponse struct {
	ID           string              `json:"id"`
	Data         ingest.Record       `json:"data"`
	Enhancements *ingest.Suggestions `json:"enhancements"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toResponse(r Resume) ResumeResponse {
	return ResumeResponse{
		ID:           r.ID,
		Data:         r.Record,
		Enhancements: r.Enhancements,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (h *Handler) upload(c *gin.Context) {
	max := h.Svc.MaxBytes
	if max <= 0 {
		max = defaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), middleware.UserIDFromContext(c), fileHeader.Filename, file)
	if err != nil {
		writeError(c, err, "failed to ingest resume")
		return
	}
	c.Set("resumeId", res.ID)
	respond.JSON(c, http.StatusCreated, toResponse(res))
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, toResponse(res))
}

func (h *Handler) list(c *gin.Context) {
	limit := queryInt(c, "limit", 100)
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	skip := queryInt(c, "skip", 0)
	if skip < 0 {
		skip = 0
	}

	items, err := h.Svc.List(c.Request.Context(), limit, skip)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}
	resp := make([]ResumeResponse, 0, len(items))
	for _, r := range items {
		resp = append(resp, toResponse(r))
	}
	respond.OK(c, gin.H{"resumes": resp, "count": len(resp)})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) enhance(c *gin.Context) {
	res, err := h.Svc.Enhance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to enhance resume")
		return
	}
	respond.OK(c, gin.H{
		"id":          res.ID,
		"suggestions": res.Enhancements,
	})
}

// writeError maps service and ingestion errors onto HTTP responses.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		return
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
		return
	case errors.Is(err, ErrInvalidInput), errors.Is(err, util.ErrInvalidFileName):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	switch kind := ingest.KindOf(err); kind {
	case ingest.KindUnsupportedFormat, ingest.KindExtractionFailure, ingest.KindEmptyDocument:
		respond.Error(c, http.StatusUnprocessableEntity, string(kind), err.Error(), nil)
	case ingest.KindNormalizationFailure, ingest.KindEnhancementFailure:
		respond.Error(c, http.StatusBadGateway, string(kind), err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
