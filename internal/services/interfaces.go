package services

import (
	"context"
	"time"

	"spendchat/internal/ai"
	"spendchat/internal/models"
	"spendchat/internal/pagination"
	"spendchat/internal/vonage"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, phone, currency string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// ExpenseInput holds the fields of a new expense. Amount is in minor units.
type ExpenseInput struct {
	Description string
	Amount      int64
	Category    string
	SubCategory string
	Date        time.Time
}

// ExpenseServicer defines the contract for expense persistence.
type ExpenseServicer interface {
	CreateExpense(userID string, in ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

// ReportServicer builds the tabular expense history of a user.
type ReportServicer interface {
	BuildReport(userID string) (*Report, error)
}

// VerifyInput is the payload of an OTP verification. Name and Currency are
// only used when NewUser is set.
type VerifyInput struct {
	PhoneNumber string
	Code        string
	NewUser     bool
	Name        string
	Currency    string
	Source      string
}

// OTPServicer gates signup and signin behind a one-time code.
type OTPServicer interface {
	RequestCode(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, in VerifyInput) (*models.User, error)
}

// ConversationServicer turns an inbound chat message into exactly one reply.
type ConversationServicer interface {
	HandleMessage(ctx context.Context, from, text string) string
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, source string, changes map[string]any)
}

// Classifier detects the intent of a chat message.
type Classifier interface {
	Classify(ctx context.Context, text string, today time.Time) ai.Classification
}

// Analyst answers questions about expenses with a language model.
type Analyst interface {
	Answer(ctx context.Context, history, question string) (string, error)
	Insight(ctx context.Context, expenses string) (string, error)
}

// Verifier starts and checks phone verifications with the OTP provider.
type Verifier interface {
	StartVerification(ctx context.Context, number string) (*vonage.VerifyResult, error)
	CheckVerification(ctx context.Context, requestID, code string) (*vonage.VerifyResult, error)
}

// Messenger delivers a chat reply to a phone number.
type Messenger interface {
	SendWhatsApp(ctx context.Context, to, text string) error
}
