package dto

import (
	"time"

	"github.com/noah-isme/simcheck-go-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for submission upload.
type SubmissionCreateRequest struct {
	AssignmentID uint `form:"assignment_id" validate:"required,gt=0"`
	StudentID    uint `form:"student_id" validate:"required,gt=0"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID *uint   `query:"assignment_id"`
	StudentID    *uint   `query:"student_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=uploaded checked graded"`
}

// SubmissionResponse is returned to API clients when viewing submissions. Raw
// file bytes are never serialized.
type SubmissionResponse struct {
	ID           uint      `json:"id"`
	AssignmentID uint      `json:"assignment_id"`
	StudentID    uint      `json:"student_id"`
	FileName     string    `json:"file_name"`
	Format       string    `json:"format"`
	ContentHash  string    `json:"content_hash"`
	Status       string    `json:"status"`
	Grade        *float64  `json:"grade"`
	Comment      string    `json:"comment"`
	AutoGraded   bool      `json:"auto_graded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FileName:     model.FileName,
		Format:       model.Format,
		ContentHash:  model.ContentHash,
		Status:       model.Status,
		Grade:        model.Grade,
		Comment:      model.Comment,
		AutoGraded:   model.AutoGraded,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(items []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewSubmissionResponse(item))
	}
	return responses
}
