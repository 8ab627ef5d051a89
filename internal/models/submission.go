package models

import "time"

// Submission represents a file submitted by a student for an assignment. The
// raw bytes are owned exclusively by the submission; the extracted text is a
// lazily computed cache keyed by the content hash that produced it.
type Submission struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AssignmentID  uint       `gorm:"not null;index" json:"assignment_id"`
	StudentID     uint       `gorm:"not null;index" json:"student_id"`
	FileName      string     `gorm:"size:255;not null" json:"file_name"`
	Format        string     `gorm:"size:8;not null" json:"format"`
	Content       []byte     `gorm:"not null" json:"-"`
	ContentHash   string     `gorm:"size:64;not null;index" json:"content_hash"`
	ExtractedText *string    `gorm:"type:text" json:"-"`
	ExtractedHash string     `gorm:"size:64" json:"-"`
	Status        string     `gorm:"size:32;not null" json:"status"`
	Grade         *float64   `json:"grade"`
	Comment       string     `gorm:"type:text" json:"comment"`
	AutoGraded    bool       `json:"auto_graded"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Assignment    Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

const (
	// SubmissionStatusUploaded indicates the file is stored but not yet checked.
	SubmissionStatusUploaded = "uploaded"
	// SubmissionStatusChecked indicates a plagiarism report exists for the submission.
	SubmissionStatusChecked = "checked"
	// SubmissionStatusGraded indicates the submission has a final grade.
	SubmissionStatusGraded = "graded"
)

// IsChecked reports whether a plagiarism check has completed for the submission.
func (s Submission) IsChecked() bool {
	return s.Status == SubmissionStatusChecked || s.Status == SubmissionStatusGraded
}

// HasValidExtraction reports whether the cached extracted text still matches
// the stored content. A changed file or format invalidates the cache.
func (s Submission) HasValidExtraction() bool {
	return s.ExtractedText != nil && s.ExtractedHash == s.ContentHash
}
