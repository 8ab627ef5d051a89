package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/simcheck-go-api/internal/dto"
	"github.com/noah-isme/simcheck-go-api/internal/models"
	"github.com/noah-isme/simcheck-go-api/internal/observability"
	"github.com/noah-isme/simcheck-go-api/internal/plagiarism"
	"github.com/noah-isme/simcheck-go-api/internal/repository"
	"github.com/noah-isme/simcheck-go-api/pkg/extract"
)

// ErrReportNotFound indicates no plagiarism report exists for a submission.
var ErrReportNotFound = errors.New("plagiarism report not found")

// CheckService runs plagiarism checks and persists their reports.
type CheckService interface {
	Check(ctx context.Context, submissionID uint, payload dto.CheckRequest) (dto.ReportResponse, error)
	GetLatestReport(ctx context.Context, submissionID uint) (dto.ReportResponse, error)
	ListReports(ctx context.Context, submissionID uint) ([]dto.ReportResponse, error)
}

type checkService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	reports     repository.ReportRepository
	checker     *plagiarism.Checker
	resolver    plagiarism.TextResolver
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCheckService constructs a CheckService instance.
func NewCheckService(
	subRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	reportRepo repository.ReportRepository,
	checker *plagiarism.Checker,
	resolver plagiarism.TextResolver,
	logger zerolog.Logger,
) CheckService {
	return &checkService{
		submissions: subRepo,
		assignments: assignmentRepo,
		reports:     reportRepo,
		checker:     checker,
		resolver:    resolver,
		logger:      logger.With().Str("component", "check_service").Logger(),
		now:         time.Now,
	}
}

// Check compares the submission against every other submission of the same
// assignment, persists the resulting report and applies the auto-grade policy
// when the threshold is exceeded.
func (s *checkService) Check(ctx context.Context, submissionID uint, payload dto.CheckRequest) (dto.ReportResponse, error) {
	started := s.now()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrSubmissionNotFound
		}
		return dto.ReportResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	comparables, err := s.submissions.ListComparables(ctx, submission.AssignmentID, submission.ID)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	target := sourceFromSubmission(submission)
	sources := make([]plagiarism.Source, 0, len(comparables))
	for _, comparable := range comparables {
		sources = append(sources, sourceFromSubmission(comparable))
	}

	opts := plagiarism.CheckOptions{
		ExcludeReferences: payload.ExcludeReferences,
		ExcludeQuotes:     payload.ExcludeQuotes,
	}

	report, err := s.checker.Check(ctx, target, sources, assignment.PlagiarismThreshold, opts)
	if err != nil {
		observability.Checks().WithLabelValues("error").Inc()
		return dto.ReportResponse{}, err
	}

	submission = s.withExtraction(ctx, submission)

	stored, err := s.persistReport(ctx, submission, report)
	if err != nil {
		observability.Checks().WithLabelValues("error").Inc()
		return dto.ReportResponse{}, err
	}

	s.backfillExtractions(ctx, comparables)

	result := "ok"
	if report.ExceedsThreshold {
		result = "exceeded"
	}
	observability.Checks().WithLabelValues(result).Inc()
	observability.CheckLatency().Observe(time.Since(started).Seconds())

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Int("comparables", len(report.Pairs)).
		Int("web_matches", len(report.WebMatches)).
		Bool("exceeds_threshold", report.ExceedsThreshold).
		Msg("plagiarism check completed")

	return dto.NewReportResponse(stored), nil
}

func (s *checkService) GetLatestReport(ctx context.Context, submissionID uint) (dto.ReportResponse, error) {
	report, err := s.reports.GetLatestBySubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}

	return dto.NewReportResponse(report), nil
}

// ListReports returns the full check history of a submission, newest first.
func (s *checkService) ListReports(ctx context.Context, submissionID uint) ([]dto.ReportResponse, error) {
	if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	reports, err := s.reports.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, dto.NewReportResponse(report))
	}

	return responses, nil
}

// persistReport stores the report rows and updates the submission's status,
// auto-grading it to zero when the threshold was exceeded.
func (s *checkService) persistReport(ctx context.Context, submission models.Submission, report plagiarism.Report) (models.PlagiarismReport, error) {
	var maxPercentage float64
	pairs := make([]models.SimilarityRecord, 0, len(report.Pairs))
	for rank, pair := range report.Pairs {
		if pair.Percentage > maxPercentage {
			maxPercentage = pair.Percentage
		}
		pairs = append(pairs, models.SimilarityRecord{
			ComparedSubmissionID: pair.SubmissionID,
			Percentage:           pair.Percentage,
			Rank:                 rank + 1,
		})
	}

	matches := make([]models.WebMatchRecord, 0, len(report.WebMatches))
	for _, match := range report.WebMatches {
		matches = append(matches, models.WebMatchRecord{
			Snippet:   match.Snippet,
			SourceURL: match.URL,
			Overlap:   match.Overlap,
		})
	}

	details, err := json.Marshal(report)
	if err != nil {
		return models.PlagiarismReport{}, fmt.Errorf("failed to serialize report details: %w", err)
	}

	stored := models.PlagiarismReport{
		SubmissionID:     submission.ID,
		Threshold:        report.Threshold,
		MaxPercentage:    maxPercentage,
		ExceedsThreshold: report.ExceedsThreshold,
		Details:          datatypes.JSON(details),
		CheckedAt:        report.CheckedAt,
		Pairs:            pairs,
		WebMatches:       matches,
	}

	if err := s.reports.Create(ctx, &stored); err != nil {
		return models.PlagiarismReport{}, err
	}

	submission.Status = models.SubmissionStatusChecked
	if report.ExceedsThreshold {
		zero := 0.0
		submission.Grade = &zero
		submission.AutoGraded = true
		submission.Status = models.SubmissionStatusGraded
		submission.Comment = fmt.Sprintf(
			"Automatic grade: 0 (similarity %.2f%% exceeds threshold %.2f%%)",
			maxPercentage, report.Threshold,
		)
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return models.PlagiarismReport{}, err
	}

	return stored, nil
}

// withExtraction fills in the extracted-text cache fields when the
// submission does not yet carry a valid cache. Resolving hits the Redis cache
// populated during the check. The row itself is saved by the caller.
func (s *checkService) withExtraction(ctx context.Context, submission models.Submission) models.Submission {
	if submission.HasValidExtraction() {
		return submission
	}

	text, err := s.resolver.ResolveText(ctx, sourceFromSubmission(submission))
	if err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("extraction backfill skipped")
		return submission
	}

	submission.ExtractedText = &text
	submission.ExtractedHash = submission.ContentHash
	return submission
}

// backfillExtractions persists the extracted text of comparables that lacked
// a valid cache. Failures only cost the cache, never the report, so they are
// logged and skipped. Re-writing identical text is harmless.
func (s *checkService) backfillExtractions(ctx context.Context, submissions []models.Submission) {
	for _, submission := range submissions {
		if submission.HasValidExtraction() {
			continue
		}

		updated := s.withExtraction(ctx, submission)
		if updated.ExtractedText == nil {
			continue
		}

		if err := s.submissions.Update(ctx, &updated); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist extraction cache")
		}
	}
}

func sourceFromSubmission(submission models.Submission) plagiarism.Source {
	source := plagiarism.Source{
		SubmissionID: submission.ID,
		Format:       extract.Format(submission.Format),
		Content:      submission.Content,
	}
	if submission.HasValidExtraction() {
		source.ExtractedText = submission.ExtractedText
	}
	return source
}
