package dto

import (
	"time"

	"github.com/noah-isme/simcheck-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	CourseCode          string  `json:"course_code" validate:"required,min=2,max=32"`
	Title               string  `json:"title" validate:"required,min=3,max=255"`
	QuestionFileURL     string  `json:"question_file_url" validate:"omitempty,url"`
	PlagiarismThreshold float64 `json:"plagiarism_threshold" validate:"gte=0,lte=100"`
}

// AssignmentUpdateRequest updates assignment metadata. A due date write
// replaces any previous one; the last write wins.
type AssignmentUpdateRequest struct {
	Title               *string    `json:"title" validate:"omitempty,min=3,max=255"`
	QuestionFileURL     *string    `json:"question_file_url" validate:"omitempty,url"`
	DueDate             *time.Time `json:"due_date"`
	PlagiarismThreshold *float64   `json:"plagiarism_threshold" validate:"omitempty,gte=0,lte=100"`
}

// AssignmentFilter describes query string filters for listing assignments.
type AssignmentFilter struct {
	CourseCode *string `query:"course_code"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID                  uint       `json:"id"`
	CourseCode          string     `json:"course_code"`
	Title               string     `json:"title"`
	QuestionFileURL     string     `json:"question_file_url"`
	DueDate             *time.Time `json:"due_date"`
	PlagiarismThreshold float64    `json:"plagiarism_threshold"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                  model.ID,
		CourseCode:          model.CourseCode,
		Title:               model.Title,
		QuestionFileURL:     model.QuestionFileURL,
		DueDate:             model.DueDate,
		PlagiarismThreshold: model.PlagiarismThreshold,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(items []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewAssignmentResponse(item))
	}
	return responses
}
