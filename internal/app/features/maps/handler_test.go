package maps_test

import (
	"context"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/campusride/internal/app/features/errors"
	mapsfeature "github.com/dalemusser/campusride/internal/app/features/maps"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/domain/models"
	"github.com/dalemusser/campusride/internal/testutil"
	"go.uber.org/zap"
)

type fakeMaps struct {
	coords models.Coords
	places []maps.Place
	err    error
	calls  int
}

func (f *fakeMaps) Geocode(context.Context, string) (models.Coords, error) {
	f.calls++
	return f.coords, f.err
}

func (f *fakeMaps) Route(context.Context, models.Coords, models.Coords) (maps.Route, error) {
	return maps.Route{}, f.err
}

func (f *fakeMaps) Autocomplete(context.Context, string) ([]maps.Place, error) {
	f.calls++
	return f.places, f.err
}

func newHandler(svc maps.Service) *mapsfeature.Handler {
	logger := zap.NewNop()
	return mapsfeature.NewHandler(svc, uierrors.NewErrorLogger(logger), logger)
}

func TestHandleGeocode(t *testing.T) {
	fm := &fakeMaps{coords: models.Coords{Lat: 18.46, Lng: 73.86}}
	h := newHandler(fm)

	rec := testutil.NewRecorder()
	h.HandleGeocode(rec, testutil.NewRequest(http.MethodGet, "/api/geocode?address=VIT+Pune"))
	rec.AssertStatus(t, http.StatusOK)
	coords, _ := rec.DecodeJSON(t)["coords"].(map[string]any)
	if coords["lat"] != 18.46 || coords["lng"] != 73.86 {
		t.Errorf("unexpected coords %v", coords)
	}

	rec = testutil.NewRecorder()
	h.HandleGeocode(rec, testutil.NewRequest(http.MethodGet, "/api/geocode"))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleGeocode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no results", maps.ErrNoResults, http.StatusNotFound},
		{"not configured", maps.ErrNotConfigured, http.StatusInternalServerError},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&fakeMaps{err: tt.err})
			rec := testutil.NewRecorder()
			h.HandleGeocode(rec, testutil.NewRequest(http.MethodGet, "/api/geocode?address=x"))
			rec.AssertStatus(t, tt.status)
		})
	}
}

func TestHandleAutocomplete(t *testing.T) {
	fm := &fakeMaps{places: []maps.Place{{Description: "VIT Pune, Bibwewadi", PlaceID: "p1"}}}
	h := newHandler(fm)

	rec := testutil.NewRecorder()
	h.HandleAutocomplete(rec, testutil.NewRequest(http.MethodGet, "/api/autocomplete?input=vi"))
	rec.AssertStatus(t, http.StatusOK)
	if fm.calls != 0 {
		t.Error("short input should not reach the provider")
	}

	rec = testutil.NewRecorder()
	h.HandleAutocomplete(rec, testutil.NewRequest(http.MethodGet, "/api/autocomplete?input=vit"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "VIT Pune, Bibwewadi")

	h = newHandler(&fakeMaps{err: maps.ErrNoResults})
	rec = testutil.NewRecorder()
	h.HandleAutocomplete(rec, testutil.NewRequest(http.MethodGet, "/api/autocomplete?input=zzzz"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"predictions":[]`)
}
