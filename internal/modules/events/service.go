package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/conflict-atlas/core/internal/modules/geo"
	pkgredis "github.com/conflict-atlas/core/internal/pkg/redis"
	"go.uber.org/zap"
)

const (
	iso3CachePrefix = "atlas-iso3:"
	iso3CacheTTL    = 30 * 24 * time.Hour

	// centroidWindowMonths is how far back to look for events when locating
	// a country by its event centroid.
	centroidWindowMonths = 24
)

// ErrCountryUnresolved means no static mapping, no cached value, and no
// event centroid resolved the country to an ISO3 code.
var ErrCountryUnresolved = errors.New("country could not be resolved to an ISO3 code")

// Service serves conflict events and resolves UCDP country ids to ISO3.
type Service struct {
	client *Client
	index  *geo.CountryIndex
	cache  *pkgredis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the events service. index and cache may be nil; polygon
// resolution and memoization are then skipped.
func NewService(client *Client, index *geo.CountryIndex, cache *pkgredis.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		index:  index,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Recent returns events matching q; an empty window defaults to the last
// twelve months.
func (s *Service) Recent(ctx context.Context, q Query) ([]Event, error) {
	if q.StartDate == "" && q.EndDate == "" {
		q.StartDate, q.EndDate = DateWindow(s.now(), 12)
	}
	return s.client.Fetch(ctx, q)
}

// Iso3ForCountry resolves a UCDP numeric country id to ISO3. Resolution
// order: static mapping, memoized value, then the centroid of the country's
// recent events located against the boundary index.
func (s *Service) Iso3ForCountry(ctx context.Context, countryID int64) (string, error) {
	if iso3, ok := geo.ISO3ForCountryID(countryID); ok {
		return iso3, nil
	}

	cacheKey := fmt.Sprintf("%s%d", iso3CachePrefix, countryID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
			s.logger.Warn("iso3 cache read failed", zap.Int64("country_id", countryID), zap.Error(err))
		} else if cached != "" {
			return cached, nil
		}
	}

	iso3, err := s.resolveByCentroid(ctx, countryID)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, iso3, iso3CacheTTL); err != nil {
			s.logger.Warn("iso3 cache write failed", zap.Int64("country_id", countryID), zap.Error(err))
		}
	}
	return iso3, nil
}

func (s *Service) resolveByCentroid(ctx context.Context, countryID int64) (string, error) {
	if s.index == nil || s.index.Len() == 0 {
		return "", ErrCountryUnresolved
	}

	start, end := DateWindow(s.now(), centroidWindowMonths)
	evts, err := s.client.Fetch(ctx, Query{StartDate: start, EndDate: end, CountryID: countryID})
	if err != nil {
		return "", err
	}

	lat, lon, ok := Centroid(evts)
	if !ok {
		return "", ErrCountryUnresolved
	}
	name, ok := s.index.Resolve(lat, lon)
	if !ok {
		return "", ErrCountryUnresolved
	}
	iso3, ok := geo.ISO3ForName(name)
	if !ok {
		s.logger.Warn("boundary name has no ISO3 mapping",
			zap.Int64("country_id", countryID), zap.String("name", name))
		return "", ErrCountryUnresolved
	}
	return strings.ToUpper(iso3), nil
}
