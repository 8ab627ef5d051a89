package models

import "time"

// Assignment groups the submissions of one course task and carries the
// plagiarism policy applied when they are checked.
type Assignment struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	CourseCode          string     `gorm:"size:32;not null;index" json:"course_code"`
	Title               string     `gorm:"size:255;not null" json:"title"`
	QuestionFileURL     string     `gorm:"size:512" json:"question_file_url"`
	DueDate             *time.Time `json:"due_date"`
	PlagiarismThreshold float64    `gorm:"not null" json:"plagiarism_threshold"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Submissions         []Submission
}

// IsPastDue returns true when a due date is set and has already passed. An
// assignment without a due date is never past due.
func (a Assignment) IsPastDue(reference time.Time) bool {
	if a.DueDate == nil {
		return false
	}
	return reference.After(*a.DueDate)
}
