package report

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../mocks/mock_report_repository.go -package=mocks -mock_names=Repository=MockReportRepository gramroute/internal/domain/report Repository

// Repository defines the interface for report persistence
type Repository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, reportID uuid.UUID) (*Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Report, error)
	ListAll(ctx context.Context, filter *Filter) ([]*Report, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) (*StatusCounts, error)

	// TransitionStatus moves a report from one status to another only if it is
	// still in the from status, and credits award points to the owner in the
	// same transaction. It returns the updated report.
	TransitionStatus(ctx context.Context, reportID uuid.UUID, from, to Status, award int) (*Report, error)
}

// Filter represents filtering options for cross-user listings
type Filter struct {
	Status   *Status
	Category *Category
}
