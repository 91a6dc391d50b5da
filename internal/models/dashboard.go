package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardModel stores one per-user grid layout blob, keyed by
// (user_id, conflict_id). The layout is opaque to the server.
type DashboardModel struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"size:64;not null;uniqueIndex:idx_dashboards_user_conflict"`
	ConflictID int64     `json:"conflict_id" gorm:"not null;uniqueIndex:idx_dashboards_user_conflict"`
	Layout     JSON      `json:"layout"      gorm:"type:longtext"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"modified"`
}

func (DashboardModel) TableName() string { return "dashboards" }

func (d *DashboardModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
