// Package events publishes report lifecycle notifications for downstream
// systems. Publishing is fire-and-forget from the caller's point of view.
package events

import (
	"context"
	"time"

	"gramroute/internal/domain/report"

	"github.com/google/uuid"
)

type Type string

const (
	TypeReportCreated       Type = "report.created"
	TypeReportStatusChanged Type = "report.status_changed"
)

type Event struct {
	Type           Type            `json:"type"`
	ReportID       uuid.UUID       `json:"report_id"`
	UserID         uuid.UUID       `json:"user_id"`
	Status         report.Status   `json:"status"`
	PreviousStatus *report.Status  `json:"previous_status,omitempty"`
	Category       report.Category `json:"category"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// ReportCreated builds the event emitted after a report is stored.
func ReportCreated(r *report.Report) Event {
	return Event{
		Type:       TypeReportCreated,
		ReportID:   r.ID,
		UserID:     r.UserID,
		Status:     r.Status,
		Category:   r.Category,
		OccurredAt: time.Now().UTC(),
	}
}

// ReportStatusChanged builds the event emitted after a status transition.
func ReportStatusChanged(r *report.Report, previous report.Status) Event {
	return Event{
		Type:           TypeReportStatusChanged,
		ReportID:       r.ID,
		UserID:         r.UserID,
		Status:         r.Status,
		PreviousStatus: &previous,
		Category:       r.Category,
		OccurredAt:     time.Now().UTC(),
	}
}

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks gramroute/internal/events Publisher

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() {}
