package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcfg "github.com/conflict-atlas/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(endpoint string, maxPages int) *Client {
	return NewClient(appcfg.UCDPConfig{
		Endpoint:   endpoint,
		GEDVersion: "24.1",
		MaxPages:   maxPages,
	})
}

func TestFetchFollowsNextPage(t *testing.T) {
	requests := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "/gedevents/24.1", r.URL.Path)

		page := gedPage{TotalPages: 2}
		switch r.URL.Query().Get("page") {
		case "0", "":
			assert.Equal(t, "1000", r.URL.Query().Get("pagesize"))
			assert.Equal(t, "2024-01-01", r.URL.Query().Get("StartDate"))
			assert.Equal(t, "120", r.URL.Query().Get("Country"))
			page.Result = []Event{{ID: 1, CountryID: 120}}
			// Upstream links point at the public host; the client must
			// rewrite them onto the configured endpoint.
			page.NextPageURL = "https://ucdpapi.pcr.uu.se/api/gedevents/24.1?pagesize=1000&page=1"
		case "1":
			page.Result = []Event{{ID: 2, CountryID: 120}}
		default:
			t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	evts, err := testClient(srv.URL, 5).Fetch(context.Background(), Query{
		StartDate: "2024-01-01",
		EndDate:   "2025-01-01",
		CountryID: 120,
	})
	require.NoError(t, err)
	require.Len(t, evts, 2)
	assert.Equal(t, int64(1), evts[0].ID)
	assert.Equal(t, int64(2), evts[1].ID)
	assert.Equal(t, 2, requests)
}

func TestFetchHonoursPageCap(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := gedPage{
			Result:      []Event{{ID: int64(requests)}},
			NextPageURL: fmt.Sprintf("https://ucdpapi.pcr.uu.se/api/gedevents/24.1?page=%d", requests),
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	evts, err := testClient(srv.URL, 3).Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, evts, 3)
	assert.Equal(t, 3, requests)
}

func TestFetchTypeOfViolenceFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1,3", r.URL.Query().Get("TypeOfViolence"))
		_ = json.NewEncoder(w).Encode(gedPage{})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5).Fetch(context.Background(), Query{TypeOfViolence: []int{1, 3}})
	require.NoError(t, err)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5).Fetch(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDateWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	start, end := DateWindow(now, 12)
	assert.Equal(t, "2025-08-28", start)
	assert.Equal(t, "2026-08-28", end)
}

func TestCentroid(t *testing.T) {
	lat, lon, ok := Centroid([]Event{
		{Latitude: 10, Longitude: 20},
		{Latitude: 20, Longitude: 40},
	})
	require.True(t, ok)
	assert.InDelta(t, 15, lat, 1e-9)
	assert.InDelta(t, 30, lon, 1e-9)

	_, _, ok = Centroid(nil)
	assert.False(t, ok)
}
