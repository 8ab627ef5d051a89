package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/simcheck-go-api/internal/models"
)

// ReportRepository defines data operations for persisted plagiarism reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.PlagiarismReport) error
	GetLatestBySubmission(ctx context.Context, submissionID uint) (models.PlagiarismReport, error)
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.PlagiarismReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PlagiarismReport{}).
		Preload("Pairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC")
		}).
		Preload("WebMatches")
}

func (r *reportRepository) Create(ctx context.Context, report *models.PlagiarismReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) GetLatestBySubmission(ctx context.Context, submissionID uint) (models.PlagiarismReport, error) {
	var report models.PlagiarismReport
	if err := r.baseQuery(ctx).
		Where("submission_id = ?", submissionID).
		Order("checked_at DESC").
		First(&report).Error; err != nil {
		return models.PlagiarismReport{}, err
	}

	return report, nil
}

func (r *reportRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.PlagiarismReport, error) {
	var reports []models.PlagiarismReport
	if err := r.baseQuery(ctx).
		Where("submission_id = ?", submissionID).
		Order("checked_at DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}
