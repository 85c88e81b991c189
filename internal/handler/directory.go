package handler

import (
	"net/http"
	"strconv"

	"github.com/postdost/postdost/internal/handler/dto"
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/service"
)

// defaultNearbyLimit caps nearby results when the client does not ask
// for a specific count.
const defaultNearbyLimit = 10

// DirectoryHandler handles HTTP requests for the business directory.
type DirectoryHandler struct {
	svc *service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

// List handles GET /api/businesses.
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.BusinessListResponse{
		Businesses: h.svc.List(),
	})
}

// Search handles GET /api/businesses/search?q=.
func (h *DirectoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	results := h.svc.Search(r.URL.Query().Get("q"))
	if results == nil {
		results = []model.Business{}
	}
	writeJSON(w, http.StatusOK, dto.BusinessListResponse{
		Businesses: results,
	})
}

// Nearby handles GET /api/businesses/nearby?lat=&lng=&limit=.
func (h *DirectoryHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", map[string]string{
			"coordinates": "lat and lng must be valid numbers",
		})
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(w, http.StatusBadRequest, "Invalid input", map[string]string{
			"coordinates": "lat must be in [-90,90] and lng in [-180,180]",
		})
		return
	}

	limit := defaultNearbyLimit
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	writeJSON(w, http.StatusOK, dto.NearbyBusinessListResponse{
		Businesses: h.svc.Nearby(lat, lng, limit),
	})
}
