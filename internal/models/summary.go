package models

import "time"

// ConflictSummaryModel caches one generated summary per subject.
//
// StorageKey is the signed natural key: positive for a conflict id, negative
// for a country id (country-level aggregate rows). Zero is never valid; both
// id spaces are positive, so the two kinds cannot collide.
type ConflictSummaryModel struct {
	StorageKey      int64     `json:"storage_key"       gorm:"primaryKey;autoIncrement:false"`
	CountryID       *int64    `json:"country_id"        gorm:"index"`
	ConflictName    string    `json:"conflict_name"`
	SummaryText     string    `json:"summary_text"      gorm:"type:text;not null"`
	Model           string    `json:"model"`
	LastGeneratedAt time.Time `json:"last_generated_at"`
	CreatedAt       time.Time `json:"created"`
	UpdatedAt       time.Time `json:"modified"`
}

func (ConflictSummaryModel) TableName() string { return "conflict_summaries" }
