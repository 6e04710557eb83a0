package ai

import (
	"context"
	"strings"

	apperrors "spendchat/internal/errors"
)

const (
	answerPrompt  = "Based on below expenses done by user give answer to user. Optimize as WhatsApp message reply and add emojis.\n\nExpense History:\n"
	insightPrompt = "Based on the following expenses done by the user for the current month, provide a short and crisp one-line insight:\n\n"
)

// Analyst answers questions about a user's expense history.
type Analyst struct {
	gen Generator
}

// NewAnalyst creates an Analyst using gen.
func NewAnalyst(gen Generator) *Analyst {
	return &Analyst{gen: gen}
}

// Answer replies to question using the CSV expense history as context.
func (a *Analyst) Answer(ctx context.Context, history, question string) (string, error) {
	return a.generate(ctx, Request{
		System:   answerPrompt + history,
		Prompt:   question,
		MIMEType: MIMEText,
	})
}

// Insight returns a one-line summary of the given expenses.
func (a *Analyst) Insight(ctx context.Context, expenses string) (string, error) {
	return a.generate(ctx, Request{
		Prompt:   insightPrompt + expenses,
		MIMEType: MIMEText,
	})
}

func (a *Analyst) generate(ctx context.Context, req Request) (string, error) {
	out, err := a.gen.Generate(ctx, req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", apperrors.Wrap(apperrors.ErrExternalService, ErrEmptyResponse)
	}
	return out, nil
}
