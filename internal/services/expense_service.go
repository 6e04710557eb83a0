package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/models"
	"spendchat/internal/pagination"
)

// errExpenseOwnerMissing is the reply when an expense targets a deleted or unknown user.
var errExpenseOwnerMissing = apperrors.WithMessage(apperrors.ErrUserNotFound, "User not found. Please signup.")

// expenseService handles expense persistence.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense stores an expense for userID. The owner lookup and the insert
// run in one transaction so an expense never outlives its user check.
func (s *expenseService) CreateExpense(userID string, in ExpenseInput) (*models.Expense, error) {
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidExpense, "unknown category")
	}
	if strings.TrimSpace(in.Description) == "" || in.Amount <= 0 {
		return nil, apperrors.ErrInvalidExpense
	}

	expense := &models.Expense{
		UserID:      userID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    string(category),
		SubCategory: strings.TrimSpace(in.SubCategory),
		Date:        models.Day(in.Date),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errExpenseOwnerMissing
			}
			return apperrors.Wrap(apperrors.ErrExpenseCreateFailed, err)
		}
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrExpenseCreateFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// GetUserExpenses returns a page of the user's expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	query := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := query.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(expenses, page, total)
	return &resp, nil
}
