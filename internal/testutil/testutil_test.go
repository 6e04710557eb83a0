package testutil_test

import (
	"testing"
	"time"

	"spendchat/internal/errors"
	"spendchat/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "expenses", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Table("users").Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.PhoneNumber[0] != '+' {
		t.Errorf("expected canonical phone, got %s", user.PhoneNumber)
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, 1250, time.Now())
	if expense.Amount != 1250 {
		t.Errorf("expected amount 1250, got %d", expense.Amount)
	}
	if expense.Date.Hour() != 0 {
		t.Errorf("expected date truncated to midnight, got %s", expense.Date)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrUserNotFound, "custom message")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
