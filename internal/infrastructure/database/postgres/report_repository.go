package postgres

import (
	"context"
	"errors"
	"fmt"

	"gramroute/internal/domain/report"
	"gramroute/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	now := dbNow()
	rep.CreatedAt = now
	rep.UpdatedAt = now
	if rep.Status == "" {
		rep.Status = report.StatusPending
	}

	dbModel := toReportModel(rep)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, reportID uuid.UUID) (*report.Report, error) {
	var dbModel models.ReportModel
	err := r.db.DB.WithContext(ctx).
		InnerJoins("User").
		Where("reports.id = ?", reportID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return toReportEntity(&dbModel), nil
}

// ListByUser returns the user's reports oldest first. The id tie-break keeps
// the order stable for reports created in the same instant.
func (r *ReportRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*report.Report, error) {
	var dbModels []models.ReportModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return toReportEntities(dbModels), nil
}

// ListAll returns every report joined with its owner, newest first.
func (r *ReportRepository) ListAll(ctx context.Context, filter *report.Filter) ([]*report.Report, error) {
	var dbModels []models.ReportModel

	db := r.db.DB.WithContext(ctx).InnerJoins("User")
	if filter != nil {
		if filter.Status != nil {
			db = db.Where("reports.status = ?", string(*filter.Status))
		}
		if filter.Category != nil {
			db = db.Where("reports.category = ?", string(*filter.Category))
		}
	}

	err := db.Order("reports.created_at DESC").
		Order("reports.id ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return toReportEntities(dbModels), nil
}

func (r *ReportRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (*report.StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int
	}
	err := r.db.DB.WithContext(ctx).
		Model(&models.ReportModel{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	counts := &report.StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch report.Status(row.Status) {
		case report.StatusPending:
			counts.Pending = row.Count
		case report.StatusInProgress:
			counts.InProgress = row.Count
		case report.StatusResolved:
			counts.Resolved = row.Count
		}
	}

	return counts, nil
}

func (r *ReportRepository) TransitionStatus(ctx context.Context, reportID uuid.UUID, from, to report.Status, award int) (*report.Report, error) {
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ReportModel
		if err := tx.First(&current, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return report.ErrReportNotFound
			}
			return fmt.Errorf("failed to load report: %w", err)
		}

		result := tx.Model(&models.ReportModel{}).
			Where("id = ? AND status = ?", reportID, string(from)).
			Updates(map[string]interface{}{
				"status":     string(to),
				"updated_at": dbNow(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update report status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return report.ErrStatusChanged
		}

		if award != 0 {
			result = tx.Model(&models.UserModel{}).
				Where("id = ?", current.UserID).
				Update("score", gorm.Expr("score + ?", award))
			if result.Error != nil {
				return fmt.Errorf("failed to award score: %w", result.Error)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, reportID)
}

func toReportModel(rep *report.Report) *models.ReportModel {
	return &models.ReportModel{
		ID:          rep.ID,
		UserID:      rep.UserID,
		Title:       rep.Title,
		Description: rep.Description,
		Category:    string(rep.Category),
		Latitude:    rep.Latitude,
		Longitude:   rep.Longitude,
		Status:      string(rep.Status),
		FileName:    rep.FileName,
		CreatedAt:   rep.CreatedAt,
		UpdatedAt:   rep.UpdatedAt,
	}
}

func toReportEntity(m *models.ReportModel) *report.Report {
	rep := &report.Report{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Category:    report.Category(m.Category),
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Status:      report.Status(m.Status),
		FileName:    m.FileName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.User != nil {
		rep.Owner = &report.Owner{
			Username: m.User.Username,
			Email:    m.User.Email,
		}
	}
	return rep
}

func toReportEntities(dbModels []models.ReportModel) []*report.Report {
	reports := make([]*report.Report, len(dbModels))
	for i := range dbModels {
		reports[i] = toReportEntity(&dbModels[i])
	}
	return reports
}
