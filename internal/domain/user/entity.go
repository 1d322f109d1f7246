package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered citizen or administrator.
type User struct {
	ID             uuid.UUID
	Email          string
	Username       string
	PasswordHashed string
	FirstName      string
	LastName       string
	Phone          *string
	Address        *string
	Score          int
	IsAdmin        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Rank is the community rank shown on the profile page.
func (u *User) Rank() int {
	if u.Score < 0 {
		return 1
	}
	return u.Score/10 + 1
}
