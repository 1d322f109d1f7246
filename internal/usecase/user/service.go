package user

import (
	"context"
	"errors"
	"fmt"

	"gramroute/internal/config"
	domainReport "gramroute/internal/domain/report"
	domainUser "gramroute/internal/domain/user"
	"gramroute/internal/logger"
	appErrors "gramroute/pkg/errors"
	"gramroute/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements user use cases
type Service struct {
	userRepo   domainUser.Repository
	reportRepo domainReport.Repository
	config     *config.Config
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	reportRepo domainReport.Repository,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo:   userRepo,
		reportRepo: reportRepo,
		config:     cfg,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = utils.SanitizeString(req.Username)
	req.FirstName = utils.SanitizeString(req.FirstName)
	req.LastName = utils.SanitizeString(req.LastName)
	req.Phone = cleanOptional(req.Phone, utils.SanitizePhone)
	req.Address = cleanOptional(req.Address, utils.SanitizeText)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.ValidationMessage(err), err)
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), nil)
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", req.Email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, domainUser.ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordHashed: hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Address:        req.Address,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			logger.Warn("Registration attempt with existing username",
				zap.String("username", req.Username),
				zap.String("event", "registration_failed_duplicate_username"),
			)
		}
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)

	return s.issueSession(user)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Bool("is_admin", user.IsAdmin),
		zap.String("event", "login_success"),
	)

	return s.issueSession(user)
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToProfileResponse(user), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	if req.FirstName != nil {
		v := utils.SanitizeString(*req.FirstName)
		req.FirstName = &v
	}
	if req.LastName != nil {
		v := utils.SanitizeString(*req.LastName)
		req.LastName = &v
	}
	clearPhone := isEmptyOptional(req.Phone, utils.SanitizePhone)
	clearAddress := isEmptyOptional(req.Address, utils.SanitizeText)
	req.Phone = cleanOptional(req.Phone, utils.SanitizePhone)
	req.Address = cleanOptional(req.Address, utils.SanitizeText)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil || clearPhone {
		user.Phone = req.Phone
	}
	if req.Address != nil || clearAddress {
		user.Address = req.Address
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "profile_updated"),
	)

	return ToProfileResponse(user), nil
}

func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.reportRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		TotalReports: counts.Total,
		Pending:      counts.Pending,
		InProgress:   counts.InProgress,
		Resolved:     counts.Resolved,
		Score:        user.Score,
		Rank:         user.Rank(),
	}, nil
}

// EnsureAdmin makes sure the configured bootstrap account exists and carries
// the admin flag. An existing account keeps its password.
func (s *Service) EnsureAdmin(ctx context.Context, admin config.AdminConfig) error {
	if !admin.Enabled() {
		return nil
	}

	email := utils.SanitizeEmail(admin.Email)
	if !utils.IsValidEmail(email) {
		return appErrors.NewValidationError("ADMIN_EMAIL is not a valid email address", nil)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	if existing != nil {
		if existing.IsAdmin {
			return nil
		}
		if err := s.userRepo.SetAdmin(ctx, existing.ID, true); err != nil {
			return fmt.Errorf("failed to promote admin user: %w", err)
		}
		logger.Info("Existing user promoted to admin",
			zap.String("user_id", existing.ID.String()),
			zap.String("email", email),
			zap.String("event", "admin_promoted"),
		)
		return nil
	}

	hashedPassword, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	username := utils.SanitizeString(admin.Username)
	if username == "" {
		username = "admin"
	}

	user := &domainUser.User{
		Email:          email,
		Username:       username,
		PasswordHashed: hashedPassword,
		IsAdmin:        true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Admin user created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
		zap.String("event", "admin_created"),
	)
	return nil
}

func (s *Service) issueSession(user *domainUser.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(
		user.ID,
		user.Email,
		user.Username,
		user.IsAdmin,
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		User:      ToUserResponse(user),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.Unix(),
	}, nil
}

// cleanOptional sanitizes an optional field and turns blank values into nil.
func cleanOptional(v *string, sanitize func(string) string) *string {
	if v == nil {
		return nil
	}
	cleaned := sanitize(*v)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func isEmptyOptional(v *string, sanitize func(string) string) bool {
	return v != nil && sanitize(*v) == ""
}
