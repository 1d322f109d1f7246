package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gramroute/internal/config"
	domainReport "gramroute/internal/domain/report"
	"gramroute/internal/events"
	"gramroute/internal/logger"
	appErrors "gramroute/pkg/errors"
	"gramroute/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// MsgRequiredFields is returned when a submission lacks a title, description
// or category.
const MsgRequiredFields = "Title, description and category are required"

// Service implements report use cases
type Service struct {
	reportRepo domainReport.Repository
	publisher  events.Publisher
	config     *config.Config
}

// NewService creates a new report service
func NewService(
	reportRepo domainReport.Repository,
	publisher events.Publisher,
	cfg *config.Config,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		reportRepo: reportRepo,
		publisher:  publisher,
		config:     cfg,
	}
}

func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req *SubmitReportRequest) (*ReportResponse, error) {
	req.Title = utils.SanitizeString(req.Title)
	req.Description = utils.SanitizeText(req.Description)
	req.Category = strings.ToLower(utils.SanitizeString(req.Category))
	if req.FileName != nil {
		name := utils.SanitizeFileName(*req.FileName)
		if name == "" {
			req.FileName = nil
		} else {
			req.FileName = &name
		}
	}

	if req.Title == "" || req.Description == "" || req.Category == "" {
		return nil, appErrors.NewValidationError(MsgRequiredFields, nil)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.ValidationMessage(err), err)
	}

	report := &domainReport.Report{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    domainReport.Category(req.Category),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      domainReport.StatusPending,
		FileName:    req.FileName,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	logger.Info("Report submitted",
		zap.String("report_id", report.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("category", req.Category),
		zap.String("event", "report_submitted"),
	)

	s.publish(ctx, events.ReportCreated(report))

	return ToReportResponse(report), nil
}

// ListMine returns the caller's reports, oldest first. The result is never nil.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*ReportResponse, error) {
	reports, err := s.reportRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, ToReportResponse(r))
	}
	return responses, nil
}

// ListAll returns every report with its owner, newest first. An empty status
// means no filter.
func (s *Service) ListAll(ctx context.Context, status string) ([]*AdminReportResponse, error) {
	filter := &domainReport.Filter{}
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		st := domainReport.Status(status)
		if !st.Valid() {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus,
				fmt.Sprintf("Unknown report status: %s", status), domainReport.ErrInvalidStatus)
		}
		filter.Status = &st
	}

	reports, err := s.reportRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*AdminReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, ToAdminReportResponse(r))
	}
	return responses, nil
}

// Get returns one report. Only its owner or an admin may read it.
func (s *Service) Get(ctx context.Context, reportID, userID uuid.UUID, isAdmin bool) (*ReportResponse, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.UserID != userID && !isAdmin {
		logger.Warn("Report read denied",
			zap.String("report_id", reportID.String()),
			zap.String("user_id", userID.String()),
			zap.String("event", "report_access_denied"),
		)
		return nil, appErrors.ErrInsufficientPermissions
	}

	return ToReportResponse(report), nil
}

// UpdateStatus advances a report one step along its lifecycle. Resolving a
// report credits its owner with the configured score.
func (s *Service) UpdateStatus(ctx context.Context, reportID uuid.UUID, req *UpdateStatusRequest) (*ReportResponse, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus,
			fmt.Sprintf("Unknown report status: %s", req.Status), domainReport.ErrInvalidStatus)
	}
	next := domainReport.Status(req.Status)

	current, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := domainReport.ValidateStatusTransition(current.Status, next); err != nil {
		if errors.Is(err, domainReport.ErrInvalidStatusTransition) {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidTransition,
				fmt.Sprintf("Cannot transition from %s to %s", current.Status, next), err)
		}
		return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus,
			fmt.Sprintf("Unknown report status: %s", next), err)
	}

	award := 0
	if next == domainReport.StatusResolved && s.config.Reports.ScorePerResolved > 0 {
		award = s.config.Reports.ScorePerResolved
	}

	updated, err := s.reportRepo.TransitionStatus(ctx, reportID, current.Status, next, award)
	if err != nil {
		return nil, err
	}

	logger.Info("Report status updated",
		zap.String("report_id", reportID.String()),
		zap.String("old_status", string(current.Status)),
		zap.String("new_status", string(next)),
		zap.Int("score_awarded", award),
		zap.String("event", "report_status_changed"),
	)

	s.publish(ctx, events.ReportStatusChanged(updated, current.Status))

	return ToReportResponse(updated), nil
}

// publish delivers an event without failing the caller. It outlives a
// cancelled request context but is bounded by publishTimeout.
func (s *Service) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish report event",
			zap.String("type", string(event.Type)),
			zap.String("report_id", event.ReportID.String()),
			zap.Error(err),
		)
	}
}
