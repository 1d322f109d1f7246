package report

import (
	"time"

	domainReport "gramroute/internal/domain/report"
	"gramroute/pkg/utils"

	"github.com/google/uuid"
)

func init() {
	_ = utils.RegisterStringValidation("report_category", func(v string) bool {
		return domainReport.Category(v).Valid()
	})
	_ = utils.RegisterStringValidation("report_status", func(v string) bool {
		return domainReport.Status(v).Valid()
	})
}

type SubmitReportRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category" validate:"required,report_category"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	FileName    *string  `json:"file_name" validate:"omitempty,max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,report_status"`
}

type ReportResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Status      string    `json:"status"`
	FileName    *string   `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AdminReportResponse adds the owner's identity for cross-user listings.
type AdminReportResponse struct {
	ReportResponse
	Username string `json:"username"`
	Email    string `json:"email"`
}

func ToReportResponse(r *domainReport.Report) *ReportResponse {
	if r == nil {
		return nil
	}
	return &ReportResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Category:    string(r.Category),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Status:      string(r.Status),
		FileName:    r.FileName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToAdminReportResponse(r *domainReport.Report) *AdminReportResponse {
	resp := &AdminReportResponse{ReportResponse: *ToReportResponse(r)}
	if r.Owner != nil {
		resp.Username = r.Owner.Username
		resp.Email = r.Owner.Email
	}
	return resp
}
