package user

import (
	"time"

	domainUser "gramroute/internal/domain/user"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Username  string  `json:"username" validate:"required,min=3,max=100"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"first_name" validate:"notblank,max=100"`
	LastName  string  `json:"last_name" validate:"notblank,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial update. Nil fields are left unchanged and
// an empty phone or address clears it.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,notblank,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

// UserResponse is the identity block returned with a session token.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expires_at"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Score     int       `json:"score"`
	Rank      int       `json:"rank"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalReports int `json:"total_reports"`
	Pending      int `json:"pending"`
	InProgress   int `json:"in_progress"`
	Resolved     int `json:"resolved"`
	Score        int `json:"score"`
	Rank         int `json:"rank"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

func ToProfileResponse(u *domainUser.User) *ProfileResponse {
	if u == nil {
		return nil
	}
	return &ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
		Score:     u.Score,
		Rank:      u.Rank(),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
