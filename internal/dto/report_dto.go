package dto

import (
	"time"

	"github.com/noah-isme/simcheck-go-api/internal/models"
)

// SimilarityPairResponse is one ranked pair score in a report.
type SimilarityPairResponse struct {
	ComparedSubmissionID uint    `json:"compared_submission_id"`
	Percentage           float64 `json:"percentage"`
	Rank                 int     `json:"rank"`
}

// WebMatchResponse is one web corroboration hit in a report.
type WebMatchResponse struct {
	Snippet   string  `json:"snippet"`
	SourceURL string  `json:"source_url"`
	Overlap   float64 `json:"overlap"`
}

// ReportResponse serializes a persisted plagiarism report.
type ReportResponse struct {
	ID               uint                     `json:"id"`
	SubmissionID     uint                     `json:"submission_id"`
	Threshold        float64                  `json:"threshold"`
	MaxPercentage    float64                  `json:"max_percentage"`
	ExceedsThreshold bool                     `json:"exceeds_threshold"`
	Pairs            []SimilarityPairResponse `json:"pairs"`
	WebMatches       []WebMatchResponse       `json:"web_matches"`
	CheckedAt        time.Time                `json:"checked_at"`
}

// NewReportResponse converts a PlagiarismReport model into a DTO.
func NewReportResponse(model models.PlagiarismReport) ReportResponse {
	pairs := make([]SimilarityPairResponse, 0, len(model.Pairs))
	for _, pair := range model.Pairs {
		pairs = append(pairs, SimilarityPairResponse{
			ComparedSubmissionID: pair.ComparedSubmissionID,
			Percentage:           pair.Percentage,
			Rank:                 pair.Rank,
		})
	}

	matches := make([]WebMatchResponse, 0, len(model.WebMatches))
	for _, match := range model.WebMatches {
		matches = append(matches, WebMatchResponse{
			Snippet:   match.Snippet,
			SourceURL: match.SourceURL,
			Overlap:   match.Overlap,
		})
	}

	return ReportResponse{
		ID:               model.ID,
		SubmissionID:     model.SubmissionID,
		Threshold:        model.Threshold,
		MaxPercentage:    model.MaxPercentage,
		ExceedsThreshold: model.ExceedsThreshold,
		Pairs:            pairs,
		WebMatches:       matches,
		CheckedAt:        model.CheckedAt,
	}
}
