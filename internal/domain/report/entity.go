package report

import (
	"time"

	"github.com/google/uuid"
)

// Status is the processing state of a report.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// Category groups reports by the kind of infrastructure affected.
type Category string

const (
	CategoryRoad      Category = "road"
	CategorySafety    Category = "safety"
	CategoryWaste     Category = "waste"
	CategoryUtilities Category = "utilities"
	CategoryOther     Category = "other"
)

var categories = []Category{CategoryRoad, CategorySafety, CategoryWaste, CategoryUtilities, CategoryOther}

// Categories returns the accepted report categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Report is a user-submitted infrastructure issue.
type Report struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Category    Category
	Latitude    *float64
	Longitude   *float64
	Status      Status
	FileName    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is only populated by cross-user listings.
	Owner *Owner
}

// Owner is the reduced view of the submitting user.
type Owner struct {
	Username string
	Email    string
}

// StatusCounts is the per-status tally of one user's reports.
type StatusCounts struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}
