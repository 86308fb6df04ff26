package mapping

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches mapping routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/mapping/geocode", h.geocode)
	rg.POST("/mapping/route", h.route)
	rg.GET("/mapping/businesses", h.nearby)
}

type geocodeRequest struct {
	Address string `json:"address"`
}

type routeRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
}

func (h *Handler) geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	places, err := h.Svc.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"data": gin.H{
			"place_name": places[0].Name,
			"latitude":   places[0].Coordinates.Latitude,
			"longitude":  places[0].Coordinates.Longitude,
			"candidates": places,
		},
	})
}

func (h *Handler) route(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	route, err := h.Svc.Route(c.Request.Context(), req.Origin, req.Destination, req.Mode)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": route})
}

func (h *Handler) nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lat and lng are required numbers", nil)
		return
	}
	radius := DefaultRadiusKm
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "radius must be a number", nil)
			return
		}
		radius = r
	}

	out, err := h.Svc.Nearby(c.Request.Context(), Coordinates{Latitude: lat, Longitude: lng}, radius)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "businesses": out})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNoResults):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "mapping provider not configured", nil)
	case errors.Is(err, ErrUpstream):
		telemetry.Warn("mapping.upstream_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "upstream_error", "mapping provider request failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "mapping request failed", nil)
	}
}
