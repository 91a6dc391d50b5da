package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/conflict-atlas/core/internal/config"
	"github.com/conflict-atlas/core/internal/modules/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func square(name string, minLon, minLat, maxLon, maxLat float64) geo.Feature {
	return geo.Feature{Name: name, Parts: []geo.Polygon{{geo.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}}}}
}

func TestIso3ForCountryStaticMapping(t *testing.T) {
	svc := NewService(testClient("http://unused.invalid", 1), nil, nil, zap.NewNop())

	// 652 is Syria in the static table; no network traffic happens.
	iso3, err := svc.Iso3ForCountry(context.Background(), 652)
	require.NoError(t, err)
	assert.Equal(t, "SYR", iso3)
}

func TestIso3ForCountryByCentroid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(gedPage{Result: []Event{
			{ID: 1, Latitude: 34, Longitude: 38},
			{ID: 2, Latitude: 36, Longitude: 40},
		}})
	}))
	defer srv.Close()

	index := geo.NewCountryIndex([]geo.Feature{
		square("Iraq", 41, 29, 48, 37),
		square("Syria", 35, 32, 42, 37),
	})
	svc := NewService(testClient(srv.URL, 1), index, nil, zap.NewNop())

	iso3, err := svc.Iso3ForCountry(context.Background(), 999888)
	require.NoError(t, err)
	assert.Equal(t, "SYR", iso3)
}

func TestIso3ForCountryUnresolved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(gedPage{})
	}))
	defer srv.Close()

	index := geo.NewCountryIndex([]geo.Feature{square("Syria", 35, 32, 42, 37)})
	svc := NewService(testClient(srv.URL, 1), index, nil, zap.NewNop())

	_, err := svc.Iso3ForCountry(context.Background(), 999888)
	assert.ErrorIs(t, err, ErrCountryUnresolved)
}

func TestIso3ForCountryNoIndex(t *testing.T) {
	svc := NewService(testClient("http://unused.invalid", 1), nil, nil, zap.NewNop())

	_, err := svc.Iso3ForCountry(context.Background(), 999888)
	assert.ErrorIs(t, err, ErrCountryUnresolved)
}

func TestRecentDefaultsWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("StartDate"))
		assert.NotEmpty(t, r.URL.Query().Get("EndDate"))
		_ = json.NewEncoder(w).Encode(gedPage{Result: []Event{{ID: 1}}})
	}))
	defer srv.Close()

	svc := NewService(NewClient(appcfg.UCDPConfig{Endpoint: srv.URL, GEDVersion: "24.1", MaxPages: 1}), nil, nil, zap.NewNop())
	evts, err := svc.Recent(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, evts, 1)
}
