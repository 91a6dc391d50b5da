package summary

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/conflict-atlas/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeGenerator struct {
	calls      int
	text       string
	model      string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeGenerator) Model() string { return f.model }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "summary.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ConflictSummaryModel{}))
	return db
}

func newTestService(t *testing.T, gen Generator) *Service {
	t.Helper()
	return &Service{
		db:     newTestDB(t),
		logger: zap.NewNop(),
		ttl:    30 * 24 * time.Hour,
		gen:    gen,
		now:    time.Now,
	}
}

func conflictReq(id int64) Request {
	return Request{ConflictID: &id, ConflictName: "Test Conflict"}
}

func TestGetOrGenerateMissingSubject(t *testing.T) {
	gen := &fakeGenerator{text: "text", model: "m"}
	svc := newTestService(t, gen)

	_, err := svc.GetOrGenerate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrMissingSubject)
	assert.Zero(t, gen.calls)
}

func TestGetOrGenerateNotConfigured(t *testing.T) {
	svc := newTestService(t, nil)
	svc.gen = nil

	_, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetOrGenerateCachesResult(t *testing.T) {
	gen := &fakeGenerator{text: "generated summary", model: "gpt-4o-mini"}
	svc := newTestService(t, gen)

	first, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)
	assert.Equal(t, "generated summary", first.Summary)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, gen.calls)

	// Fresh cache: no second provider call.
	second, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)
	assert.Equal(t, "generated summary", second.Summary)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, gen.calls)
}

func TestGetOrGenerateForceRefresh(t *testing.T) {
	gen := &fakeGenerator{text: "v1", model: "m"}
	svc := newTestService(t, gen)

	_, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)

	gen.text = "v2"
	req := conflictReq(7)
	req.ForceRefresh = true
	result, err := svc.GetOrGenerate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "v2", result.Summary)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, gen.calls)
}

func TestGetOrGenerateStaleRegenerates(t *testing.T) {
	gen := &fakeGenerator{text: "v1", model: "m"}
	svc := newTestService(t, gen)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	_, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)

	// 31 days later the row is past the 30-day TTL.
	gen.text = "v2"
	svc.now = func() time.Time { return base.Add(31 * 24 * time.Hour) }
	result, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)
	assert.Equal(t, "v2", result.Summary)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, gen.calls)
}

func TestConflictPromptNamesTheCountry(t *testing.T) {
	gen := &fakeGenerator{text: "text", model: "m"}
	svc := newTestService(t, gen)

	req := conflictReq(7)
	req.CountryName = "Sudan"
	_, err := svc.GetOrGenerate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, `"Test Conflict" in Sudan`)

	// Without a country name the prompt stays conflict-only.
	gen2 := &fakeGenerator{text: "text", model: "m"}
	svc2 := newTestService(t, gen2)
	_, err = svc2.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)
	assert.Contains(t, gen2.lastPrompt, `"Test Conflict" in 8 to 10 sentences`)
}

func TestStorageKeysDoNotCollide(t *testing.T) {
	gen := &fakeGenerator{text: "conflict text", model: "m"}
	svc := newTestService(t, gen)

	// Conflict 7 and country 7 must produce distinct rows.
	_, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)

	countryID := int64(7)
	gen.text = "country text"
	result, err := svc.GetOrGenerate(context.Background(), Request{CountryID: &countryID, CountryName: "Testland"})
	require.NoError(t, err)
	assert.Equal(t, "country text", result.Summary)
	assert.False(t, result.Cached)

	var rows []models.ConflictSummaryModel
	require.NoError(t, svc.db.Order("storage_key").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(-7), rows[0].StorageKey)
	assert.Equal(t, int64(7), rows[1].StorageKey)
}

func TestGenerationErrorWritesNoRow(t *testing.T) {
	gen := &fakeGenerator{err: &GenerationError{Status: 429, Body: `{"error":"rate limited"}`}}
	svc := newTestService(t, gen)

	_, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 429, genErr.Status)

	var count int64
	require.NoError(t, svc.db.Model(&models.ConflictSummaryModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEmptySummaryIsNotCached(t *testing.T) {
	gen := &fakeGenerator{err: ErrEmptySummary}
	svc := newTestService(t, gen)

	_, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	assert.ErrorIs(t, err, ErrEmptySummary)

	var count int64
	require.NoError(t, svc.db.Model(&models.ConflictSummaryModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpsertFailureStillReturnsSummary(t *testing.T) {
	gen := &fakeGenerator{text: "survives", model: "m"}
	svc := newTestService(t, gen)

	require.NoError(t, svc.db.Migrator().DropTable(&models.ConflictSummaryModel{}))

	result, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)
	assert.Equal(t, "survives", result.Summary)
	assert.False(t, result.Cached)
}

func TestCacheReadFailureDegradesToMiss(t *testing.T) {
	gen := &fakeGenerator{text: "fresh", model: "m"}
	svc := newTestService(t, gen)

	// Break reads and writes; the request should still generate.
	require.NoError(t, svc.db.Migrator().DropTable(&models.ConflictSummaryModel{}))

	result, err := svc.GetOrGenerate(context.Background(), conflictReq(7))
	require.NoError(t, err)
	assert.Equal(t, "fresh", result.Summary)
	assert.Equal(t, 1, gen.calls)
}
