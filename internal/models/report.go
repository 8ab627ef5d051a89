package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlagiarismReport persists the outcome of one check for a target submission.
// It references submissions by id only; deleting it never touches them.
type PlagiarismReport struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	SubmissionID     uint               `gorm:"not null;index" json:"submission_id"`
	Threshold        float64            `gorm:"not null" json:"threshold"`
	MaxPercentage    float64            `gorm:"not null" json:"max_percentage"`
	ExceedsThreshold bool               `gorm:"not null" json:"exceeds_threshold"`
	Details          datatypes.JSON     `gorm:"type:json" json:"-"`
	CheckedAt        time.Time          `gorm:"not null" json:"checked_at"`
	CreatedAt        time.Time          `json:"created_at"`
	Pairs            []SimilarityRecord `gorm:"constraint:OnDelete:CASCADE" json:"pairs"`
	WebMatches       []WebMatchRecord   `gorm:"constraint:OnDelete:CASCADE" json:"web_matches"`
}

// SimilarityRecord is one persisted pair score, ranked within its report.
type SimilarityRecord struct {
	ID                   uint    `gorm:"primaryKey" json:"id"`
	PlagiarismReportID   uint    `gorm:"not null;index" json:"-"`
	ComparedSubmissionID uint    `gorm:"not null" json:"compared_submission_id"`
	Percentage           float64 `gorm:"not null" json:"percentage"`
	Rank                 int     `gorm:"not null" json:"rank"`
}

// WebMatchRecord is one persisted web corroboration hit.
type WebMatchRecord struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	PlagiarismReportID uint    `gorm:"not null;index" json:"-"`
	Snippet            string  `gorm:"type:text" json:"snippet"`
	SourceURL          string  `gorm:"size:1024" json:"source_url"`
	Overlap            float64 `gorm:"not null" json:"overlap"`
}
