package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/auth"
	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// normalizeEmail lowercases and trims an email for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new user. A duplicate email yields the same generic
// REGISTRATION_FAILED error as any other registration failure so the endpoint
// cannot be used to probe for existing accounts.
func (s *userService) CreateUser(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	normalized := normalizeEmail(email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", normalized).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrRegistrationFailed
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:        normalized,
		PasswordHash: hash,
		Preferences: models.Preferences{
			AlertThreshold: 3,
			EmailEnabled:   true,
		},
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitive and trimmed.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// CheckPassword reports whether the password matches the user's stored hash.
func (s *userService) CheckPassword(user *models.User, password string) bool {
	return auth.CheckPassword(password, user.PasswordHash)
}

// UpdatePreferences merge-patches the user's notification preferences.
func (s *userService) UpdatePreferences(userID uint, alertThreshold *int, emailEnabled *bool) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if alertThreshold != nil {
		updates["pref_alert_threshold"] = *alertThreshold
	}
	if emailEnabled != nil {
		updates["pref_email_enabled"] = *emailEnabled
	}
	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one preference field is required")
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetUserByID(userID)
}
