package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"spendchat/internal/logger"
	"spendchat/internal/models"
	"spendchat/internal/pagination"
	"spendchat/internal/services"
	"spendchat/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(name, phone, currency string) (*models.User, error)
	getUserByPhoneFn func(phone string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
}

func (m *mockUserService) CreateUser(name, phone, currency string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, phone, currency)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByPhone(phone string) (*models.User, error) {
	if m.getUserByPhoneFn != nil {
		return m.getUserByPhoneFn(phone)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

type mockExpenseService struct {
	createExpenseFn   func(userID string, in services.ExpenseInput) (*models.Expense, error)
	getUserExpensesFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

func (m *mockExpenseService) CreateExpense(userID string, in services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, page, 0)
	return &resp, nil
}

type mockReportService struct {
	buildReportFn func(userID string) (*services.Report, error)
}

func (m *mockReportService) BuildReport(userID string) (*services.Report, error) {
	if m.buildReportFn != nil {
		return m.buildReportFn(userID)
	}
	return &services.Report{}, nil
}

type mockOTPService struct {
	requestCodeFn func(ctx context.Context, phone string) (string, error)
	verifyFn      func(ctx context.Context, in services.VerifyInput) (*models.User, error)
}

func (m *mockOTPService) RequestCode(ctx context.Context, phone string) (string, error) {
	if m.requestCodeFn != nil {
		return m.requestCodeFn(ctx, phone)
	}
	return "req-1", nil
}

func (m *mockOTPService) Verify(ctx context.Context, in services.VerifyInput) (*models.User, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, in)
	}
	return &models.User{}, nil
}

type mockConversationService struct {
	handleMessageFn func(ctx context.Context, from, text string) string
}

func (m *mockConversationService) HandleMessage(ctx context.Context, from, text string) string {
	if m.handleMessageFn != nil {
		return m.handleMessageFn(ctx, from, text)
	}
	return ""
}

type mockAnalyst struct {
	answerFn  func(ctx context.Context, history, question string) (string, error)
	insightFn func(ctx context.Context, expenses string) (string, error)
}

func (m *mockAnalyst) Answer(ctx context.Context, history, question string) (string, error) {
	if m.answerFn != nil {
		return m.answerFn(ctx, history, question)
	}
	return "", nil
}

func (m *mockAnalyst) Insight(ctx context.Context, expenses string) (string, error) {
	if m.insightFn != nil {
		return m.insightFn(ctx, expenses)
	}
	return "", nil
}

type sentMessage struct {
	to   string
	text string
}

type mockMessenger struct {
	err  error
	sent []sentMessage
}

func (m *mockMessenger) SendWhatsApp(_ context.Context, to, text string) error {
	m.sent = append(m.sent, sentMessage{to: to, text: text})
	return m.err
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
