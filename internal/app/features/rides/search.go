// internal/app/features/rides/search.go
package rides

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	ridesvc "github.com/dalemusser/campusride/internal/app/services/rides"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/domain/models"
)

type searchResponse struct {
	Success        bool             `json:"success"`
	Rides          []models.Ride    `json:"rides"`
	SearchCriteria ridesvc.Criteria `json:"searchCriteria"`
	Origin         *models.Coords   `json:"origin,omitempty"`
	Radius         float64          `json:"radius,omitempty"`
}

func criteriaFrom(r *http.Request) ridesvc.Criteria {
	q := r.URL.Query()
	return ridesvc.Criteria{
		From: strings.TrimSpace(q.Get("from")),
		To:   strings.TrimSpace(q.Get("to")),
		Date: strings.TrimSpace(q.Get("date")),
	}
}

// HandleSearch lists active rides matching the query.
// GET /api/search-rides?from=&to=&date=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	c := criteriaFrom(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	found, err := h.Rides.Search(ctx, c)
	if err != nil {
		h.ErrLog.Respond(w, r, "search rides failed", err)
		return
	}
	jsonio.OK(w, searchResponse{Success: true, Rides: found, SearchCriteria: c})
}

// HandleNearby is search narrowed to rides picking up near lat/lng. Without
// a position every match is returned.
// GET /api/nearby-rides?lat=&lng=&radius=&from=&to=&date=
func (h *Handler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	c := criteriaFrom(r)
	q := r.URL.Query()

	var origin *models.Coords
	if q.Get("lat") != "" && q.Get("lng") != "" {
		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
		pos := models.Coords{Lat: lat, Lng: lng}
		if err1 != nil || err2 != nil || !pos.Valid() {
			h.ErrLog.LogBadRequest(w, r, "Invalid coordinates", nil)
			return
		}
		origin = &pos
	}

	var radius float64
	if s := q.Get("radius"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			h.ErrLog.LogBadRequest(w, r, "Radius must be a positive number of meters", err)
			return
		}
		radius = v
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	found, err := h.Rides.Nearby(ctx, c, origin, radius)
	if err != nil {
		h.ErrLog.Respond(w, r, "nearby rides failed", err)
		return
	}
	jsonio.OK(w, searchResponse{Success: true, Rides: found, SearchCriteria: c, Origin: origin, Radius: radius})
}
