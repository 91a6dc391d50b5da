package displacement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	appcfg "github.com/conflict-atlas/core/internal/config"
	"go.uber.org/zap"
)

// Service proxies the UNHCR population API and reduces its per-asylum-country
// rows to one latest-year aggregate per country of origin.
type Service struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewService(cfg *appcfg.AppConfig, logger *zap.Logger) *Service {
	return &Service{
		endpoint:   cfg.UNHCR.Endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// populationRow is one upstream record. The API is inconsistent about key
// casing across dataset versions, so every figure carries its known aliases
// and values may arrive as numbers or numeric strings. All of that tolerance
// stays here; nothing downstream sees raw rows.
type populationRow map[string]json.RawMessage

// Latest fetches all rows for the origin country and aggregates the most
// recent year present in the response.
func (s *Service) Latest(ctx context.Context, iso3 string) (*Snapshot, error) {
	iso3 = strings.ToUpper(strings.TrimSpace(iso3))
	rows, err := s.fetchRows(ctx, iso3)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{ISO3: iso3, Source: sourceName}
	latestYear := 0
	for _, row := range rows {
		if year, ok := row.intField("year", "Year"); ok && int(year) > latestYear {
			latestYear = int(year)
		}
	}
	if latestYear == 0 {
		return snapshot, nil
	}

	var refugees, asylum, idps int64
	var haveIDPs bool
	for _, row := range rows {
		year, ok := row.intField("year", "Year")
		if !ok || int(year) != latestYear {
			continue
		}
		if v, ok := row.intField("refugees", "Refugees"); ok {
			refugees += v
		}
		if v, ok := row.intField("asylum_seekers", "Asylum_seekers", "asylumSeekers"); ok {
			asylum += v
		}
		if v, ok := row.intField("idps", "IDPs", "idp"); ok {
			idps += v
			haveIDPs = true
		}
	}

	// Once a latest year exists, refugee and asylum figures are concrete
	// numbers (zero when the rows carry none); idps stays null unless the
	// upstream reported one.
	snapshot.Year = &latestYear
	snapshot.Refugees = &refugees
	snapshot.AsylumSeekers = &asylum
	if haveIDPs {
		snapshot.IDPs = &idps
	}
	return snapshot, nil
}

func (s *Service) fetchRows(ctx context.Context, iso3 string) ([]populationRow, error) {
	query := neturl.Values{}
	query.Set("cf_type", "ISO")
	query.Set("coo", iso3)
	query.Set("limit", "1000")

	url := s.endpoint
	if strings.Contains(url, "?") {
		url += "&" + query.Encode()
	} else {
		url += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unhcr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unhcr response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unhcr returned status %d", resp.StatusCode)
	}

	// Rows live under "data" in current API versions and under "results" in
	// older ones.
	var payload struct {
		Data    []populationRow `json:"data"`
		Results []populationRow `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("unhcr response decode failed: %w", err)
	}
	if payload.Data != nil {
		return payload.Data, nil
	}
	return payload.Results, nil
}

// intField returns the first alias present in the row, coerced to int64.
// Accepts JSON numbers and numeric strings; anything else counts as absent.
func (r populationRow) intField(aliases ...string) (int64, bool) {
	for _, key := range aliases {
		raw, ok := r[key]
		if !ok {
			continue
		}
		if v, ok := coerceInt(raw); ok {
			return v, true
		}
	}
	return 0, false
}

func coerceInt(raw json.RawMessage) (int64, bool) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return int64(num), true
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			return 0, false
		}
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			return int64(v), true
		}
	}
	return 0, false
}
