package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/models"
	"spendchat/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a user for a canonicalized phone number.
func (s *userService) CreateUser(name, phone, currency string) (*models.User, error) {
	name = strings.TrimSpace(name)
	phone = models.CanonicalPhone(phone)
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !validator.IsPhone(phone) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "phone number is invalid")
	}
	if !validator.IsCurrency(currency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency must be an ISO 4217 code")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("phone_number = ?", phone).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrUserAlreadyExists
	}

	user := &models.User{
		Name:        name,
		PhoneNumber: phone,
		Currency:    currency,
	}
	if err := s.db.Create(user).Error; err != nil {
		// Lost a race with a concurrent signup for the same number.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByPhone retrieves a user by canonical phone number.
func (s *userService) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone_number = ?", models.CanonicalPhone(phone)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}
