package dashboard

import (
	"errors"

	"github.com/conflict-atlas/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service persists per-user dashboard layouts, one row per (user, conflict).
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the saved layout for a user and conflict, or nil when none
// has been saved yet.
func (s *Service) Get(userID string, conflictID int64) (*models.DashboardModel, error) {
	var row models.DashboardModel
	err := s.db.Where("user_id = ? AND conflict_id = ?", userID, conflictID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Save upserts the layout for a user and conflict.
func (s *Service) Save(userID string, conflictID int64, layout models.JSON) (*models.DashboardModel, error) {
	row := models.DashboardModel{
		UserID:     userID,
		ConflictID: conflictID,
		Layout:     layout,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "conflict_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"layout", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return s.Get(userID, conflictID)
}
