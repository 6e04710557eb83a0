package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"spendchat/internal/testutil"
)

func TestAnalyst_Answer(t *testing.T) {
	gen := &fakeGenerator{out: "  You spent USD 40 on food 🍔  "}
	a := NewAnalyst(gen)

	got, err := a.Answer(context.Background(), "Description,Amount\nLunch,USD 40\n", "how much on food?")
	testutil.AssertNoError(t, err)

	if got != "You spent USD 40 on food 🍔" {
		t.Errorf("unexpected answer %q", got)
	}
	req := gen.reqs[0]
	if !strings.HasPrefix(req.System, "Based on below expenses done by user give answer to user.") {
		t.Errorf("unexpected system instruction %q", req.System)
	}
	if !strings.HasSuffix(req.System, "Expense History:\nDescription,Amount\nLunch,USD 40\n") {
		t.Error("expected history appended to the system instruction")
	}
	if req.Prompt != "how much on food?" || req.MIMEType != MIMEText {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestAnalyst_Insight(t *testing.T) {
	gen := &fakeGenerator{out: "Food is your biggest spend this month."}
	a := NewAnalyst(gen)

	got, err := a.Insight(context.Background(), "Lunch USD 40")
	testutil.AssertNoError(t, err)

	if got != "Food is your biggest spend this month." {
		t.Errorf("unexpected insight %q", got)
	}
	if !strings.HasSuffix(gen.reqs[0].Prompt, "one-line insight:\n\nLunch USD 40") {
		t.Errorf("unexpected prompt %q", gen.reqs[0].Prompt)
	}
}

func TestAnalyst_Failures(t *testing.T) {
	t.Run("model_error", func(t *testing.T) {
		a := NewAnalyst(&fakeGenerator{err: errors.New("boom")})
		_, err := a.Insight(context.Background(), "x")
		testutil.AssertAppError(t, err, "EXTERNAL_SERVICE_ERROR")
	})

	t.Run("blank_output", func(t *testing.T) {
		a := NewAnalyst(&fakeGenerator{out: " \n "})
		_, err := a.Answer(context.Background(), "x", "y")
		testutil.AssertAppError(t, err, "EXTERNAL_SERVICE_ERROR")
	})
}
