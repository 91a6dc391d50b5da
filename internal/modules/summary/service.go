package summary

import (
	"context"
	"errors"
	"time"

	appcfg "github.com/conflict-atlas/core/internal/config"
	"github.com/conflict-atlas/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service caches generated summaries in the database and regenerates them
// when the cached row is older than the configured TTL.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	ttl    time.Duration
	gen    Generator
	now    func() time.Time
}

// NewService wires the summary cache. gen is nil when no provider is
// configured; requests then fail with ErrNotConfigured.
func NewService(db *gorm.DB, logger *zap.Logger, cfg *appcfg.AppConfig) *Service {
	svc := &Service{
		db:     db,
		logger: logger,
		ttl:    cfg.Summary.TTL(),
		now:    time.Now,
	}
	if provider := selectProvider(cfg.AI, cfg.Summary.ProviderID); provider != nil && provider.APIKey != "" {
		svc.gen = newProviderClient(*provider, cfg.AI)
	}
	return svc
}

// GetOrGenerate returns the cached summary when it is fresh, otherwise calls
// the provider and upserts the result. A failed cache read degrades to a
// miss; a failed upsert is logged and the generated text is still returned.
func (s *Service) GetOrGenerate(ctx context.Context, req Request) (*Result, error) {
	subject, ok := req.subject()
	if !ok {
		return nil, ErrMissingSubject
	}
	if s.gen == nil {
		return nil, ErrNotConfigured
	}

	storageKey := subject.StorageKey()
	cached := s.readCached(storageKey)

	if cached != nil && !req.ForceRefresh && s.now().Sub(cached.LastGeneratedAt) < s.ttl {
		return &Result{
			Summary:     cached.SummaryText,
			Model:       cached.Model,
			Cached:      true,
			GeneratedAt: cached.LastGeneratedAt,
		}, nil
	}

	cachedName := ""
	if cached != nil {
		cachedName = cached.ConflictName
	}
	text, err := s.gen.Generate(ctx, systemPrompt, req.prompt(subject, cachedName))
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	row := models.ConflictSummaryModel{
		StorageKey:      storageKey,
		CountryID:       req.CountryID,
		ConflictName:    req.displayName(subject, cachedName),
		SummaryText:     text,
		Model:           s.gen.Model(),
		LastGeneratedAt: generatedAt,
	}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		s.logger.Warn("summary upsert failed, returning uncached result",
			zap.Int64("storage_key", storageKey), zap.Error(err))
	}

	return &Result{
		Summary:     text,
		Model:       row.Model,
		Cached:      false,
		GeneratedAt: generatedAt,
	}, nil
}

func (s *Service) readCached(storageKey int64) *models.ConflictSummaryModel {
	var row models.ConflictSummaryModel
	err := s.db.Where("storage_key = ?", storageKey).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("summary cache read failed, treating as miss",
				zap.Int64("storage_key", storageKey), zap.Error(err))
		}
		return nil
	}
	return &row
}
