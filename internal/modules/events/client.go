package events

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
)

const pageSize = 1000

// Event is one georeferenced conflict event from the UCDP GED API.
type Event struct {
	ID             int64   `json:"id"`
	ConflictID     int64   `json:"conflict_new_id"`
	ConflictName   string  `json:"conflict_name"`
	CountryID      int64   `json:"country_id"`
	Country        string  `json:"country"`
	DateStart      string  `json:"date_start"`
	DateEnd        string  `json:"date_end"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	TypeOfViolence int     `json:"type_of_violence"`
	SideA          string  `json:"side_a"`
	SideB          string  `json:"side_b"`
	Best           int     `json:"best"`
}

type gedPage struct {
	TotalCount  int     `json:"TotalCount"`
	TotalPages  int     `json:"TotalPages"`
	NextPageURL string  `json:"NextPageUrl"`
	Result      []Event `json:"Result"`
}

// Query filters a GED fetch. Zero values are omitted from the request.
type Query struct {
	StartDate      string // YYYY-MM-DD
	EndDate        string
	CountryID      int64
	TypeOfViolence []int
}

// Client pages through the UCDP GED API, following NextPageUrl up to the
// configured page cap.
type Client struct {
	endpoint   string
	version    string
	maxPages   int
	httpClient *http.Client
}

func NewClient(cfg appcfg.UCDPConfig) *Client {
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		version:    cfg.GEDVersion,
		maxPages:   cfg.MaxPages,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns all events matching q, across at most maxPages pages.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Event, error) {
	url := c.firstPageURL(q)
	var events []Event
	for page := 0; url != "" && page < c.maxPages; page++ {
		result, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		events = append(events, result.Result...)
		url = c.rebaseNextPageURL(result.NextPageURL)
	}
	return events, nil
}

func (c *Client) firstPageURL(q Query) string {
	params := neturl.Values{}
	params.Set("pagesize", strconv.Itoa(pageSize))
	params.Set("page", "0")
	if q.StartDate != "" {
		params.Set("StartDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("EndDate", q.EndDate)
	}
	if q.CountryID != 0 {
		params.Set("Country", strconv.FormatInt(q.CountryID, 10))
	}
	if len(q.TypeOfViolence) > 0 {
		codes := make([]string, 0, len(q.TypeOfViolence))
		for _, t := range q.TypeOfViolence {
			codes = append(codes, strconv.Itoa(t))
		}
		params.Set("TypeOfViolence", strings.Join(codes, ","))
	}
	return fmt.Sprintf("%s/gedevents/%s?%s", c.endpoint, c.version, params.Encode())
}

// rebaseNextPageURL rewrites the upstream continuation link onto the
// configured endpoint. The API returns absolute links to its public host,
// which would escape a proxy or a test server otherwise.
func (c *Client) rebaseNextPageURL(next string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return ""
	}
	parsed, err := neturl.Parse(next)
	if err != nil {
		return ""
	}
	idx := strings.Index(parsed.Path, "/gedevents/")
	if idx < 0 {
		return ""
	}
	return c.endpoint + parsed.Path[idx:] + "?" + parsed.RawQuery
}

func (c *Client) fetchPage(ctx context.Context, url string) (*gedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ucdp request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ucdp response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ucdp returned status %d", resp.StatusCode)
	}

	var page gedPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("ucdp response decode failed: %w", err)
	}
	return &page, nil
}

// DateWindow returns [now minus months, now] as YYYY-MM-DD strings.
func DateWindow(now time.Time, months int) (string, string) {
	start := now.AddDate(0, -months, 0)
	return start.Format("2006-01-02"), now.Format("2006-01-02")
}

// Centroid is the mean position of the given events.
func Centroid(events []Event) (lat, lon float64, ok bool) {
	if len(events) == 0 {
		return 0, 0, false
	}
	for _, e := range events {
		lat += e.Latitude
		lon += e.Longitude
	}
	n := float64(len(events))
	return lat / n, lon / n, true
}
