package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"spendchat/internal/ai"
	apperrors "spendchat/internal/errors"
	"spendchat/internal/events"
	"spendchat/internal/logger"
	"spendchat/internal/models"
)

// DefaultJoinPhrase is the sandbox join message WhatsApp sends on first contact.
const DefaultJoinPhrase = "Join couch plow"

// Fixed chat replies.
const (
	ReplyAnalyticsFallback = "Please ask about spends you have done or spend you want to log."
	ReplyGenericFailure    = "Something went wrong. Please try again."

	greetingTemplate     = "Hey %s, hope you’re doing well. Would you like to log a new expense, or would you prefer to check the status of your current expenses?"
	confirmationTemplate = "Your expense is logged successfully as below:\n" +
		"*📝 Description:* %s\n" +
		"*✨ Category:* %s\n" +
		"*🎫 Sub Category:* %s\n" +
		"*💲 Amount:* %s\n" +
		"*📅 Date:* %s"
)

// ReplyNotRegistered is sent to numbers without an account.
var ReplyNotRegistered = apperrors.ErrUserNotRegistered.Message

// ConversationDeps are the collaborators of the conversation router.
type ConversationDeps struct {
	Users      UserServicer
	Expenses   ExpenseServicer
	Reports    ReportServicer
	Classifier Classifier
	Analyst    Analyst
	Audit      AuditServicer
	Publisher  events.Publisher
	JoinPhrase string
	Now        func() time.Time
}

// conversationService routes inbound chat messages.
type conversationService struct {
	ConversationDeps
}

// NewConversationService creates a new ConversationServicer.
func NewConversationService(deps ConversationDeps) ConversationServicer {
	if deps.JoinPhrase == "" {
		deps.JoinPhrase = DefaultJoinPhrase
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	return &conversationService{ConversationDeps: deps}
}

// HandleMessage resolves the sender, classifies text and returns the reply.
// It never fails: every error path ends in a fixed reply and a log record.
func (s *conversationService) HandleMessage(ctx context.Context, from, text string) string {
	phone := models.CanonicalPhone(from)
	log := logger.For("conversation").With("sender", phone)

	user, err := s.Users.GetUserByPhone(phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			log.Infow("message from unregistered number")
			return ReplyNotRegistered
		}
		log.Errorw("user lookup failed", "error", err)
		return ReplyGenericFailure
	}

	// Exact match only; this is the WhatsApp sandbox join message.
	if text == s.JoinPhrase {
		return fmt.Sprintf(greetingTemplate, user.Name)
	}

	result := s.Classifier.Classify(ctx, text, s.Now())
	log = log.With("intent", result.Kind.String())

	switch result.Kind {
	case ai.KindAnalytics:
		return s.answer(ctx, log, user, text)
	case ai.KindSpend:
		return s.logSpend(ctx, log, user, result.Spend)
	default:
		log.Infow("no actionable intent")
		return ReplyGenericFailure
	}
}

func (s *conversationService) answer(ctx context.Context, log *zap.SugaredLogger, user *models.User, question string) string {
	report, err := s.Reports.BuildReport(user.ID)
	if err != nil {
		log.Errorw("building report failed", "error", err)
		return ReplyAnalyticsFallback
	}
	if report.Empty() {
		return ReplyAnalyticsFallback
	}

	history, err := report.CSV()
	if err != nil {
		log.Errorw("rendering report failed", "error", err)
		return ReplyAnalyticsFallback
	}

	reply, err := s.Analyst.Answer(ctx, string(history), question)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Errorw("analytics answer failed", "error", err)
		return ReplyAnalyticsFallback
	}
	return reply
}

func (s *conversationService) logSpend(ctx context.Context, log *zap.SugaredLogger, user *models.User, draft *ai.SpendDraft) string {
	if draft == nil {
		return ReplyGenericFailure
	}

	expense, err := s.Expenses.CreateExpense(user.ID, ExpenseInput{
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    string(draft.Category),
		SubCategory: draft.SubCategory,
		Date:        draft.Date,
	})
	if err != nil {
		log.Errorw("creating expense failed", "error", err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr.Message
		}
		return ReplyGenericFailure
	}

	s.Audit.Log(user.ID, AuditActionExpenseChat, "expense", expense.ID, "whatsapp", map[string]any{
		"amount":   expense.Amount,
		"category": expense.Category,
	})
	if err := s.Publisher.PublishExpenseLogged(ctx, events.NewExpenseLogged(user, expense)); err != nil {
		log.Warnw("publishing expense event failed", "expense_id", expense.ID, "error", err)
	}

	return FormatConfirmation(user, expense)
}

// FormatConfirmation renders the reply sent after an expense is stored.
func FormatConfirmation(user *models.User, expense *models.Expense) string {
	return fmt.Sprintf(confirmationTemplate,
		expense.Description,
		expense.Category,
		expense.SubCategory,
		models.DisplayAmount(user.Currency, expense.Amount),
		expense.Date.UTC().Format(models.DateLayout),
	)
}
