package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendchat/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a USD user with a unique phone number.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	phone := fmt.Sprintf("+1555%07d", nextID())
	return CreateTestUserWithPhone(t, db, phone)
}

// CreateTestUserWithPhone creates a USD user with the given phone number.
func CreateTestUserWithPhone(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()

	user := &models.User{
		Name:        fmt.Sprintf("Test User %d", nextID()),
		PhoneNumber: phone,
		Currency:    "USD",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates a Food/Dining expense of amount cents on the given day.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Amount:      amount,
		Category:    string(models.CategoryFood),
		SubCategory: "Dining",
		Date:        models.Day(date),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
