package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spendchat/internal/logger"
	"spendchat/internal/models"
)

// Kind is the outcome of classifying a chat message.
type Kind int

const (
	KindOther Kind = iota
	KindSpend
	KindAnalytics
	KindUnparseable
)

func (k Kind) String() string {
	switch k {
	case KindSpend:
		return "spend"
	case KindAnalytics:
		return "analytics"
	case KindUnparseable:
		return "unparseable"
	default:
		return "other"
	}
}

// SpendDraft holds validated expense fields extracted from a message.
// Amount is in minor units.
type SpendDraft struct {
	Description string
	Amount      int64
	Category    models.Category
	SubCategory string
	Date        time.Time
}

// Classification is the tagged result of Classify. Spend is set only when
// Kind is KindSpend.
type Classification struct {
	Kind  Kind
	Spend *SpendDraft
}

// Classifier asks the model to detect intent and extract expense fields.
type Classifier struct {
	gen Generator
}

// NewClassifier creates a Classifier using gen.
func NewClassifier(gen Generator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify never fails: model or parse errors yield KindUnparseable.
func (c *Classifier) Classify(ctx context.Context, text string, today time.Time) Classification {
	out, err := c.gen.Generate(ctx, Request{
		System:   ClassifierPrompt(today),
		Prompt:   text,
		MIMEType: MIMEJSON,
	})
	if err != nil {
		logger.For("classifier").Errorw("classification call failed", "error", err)
		return Classification{Kind: KindUnparseable}
	}

	result, err := ParseClassification(out, today)
	if err != nil {
		logger.For("classifier").Warnw("unusable classification", "error", err, "payload", out)
	}
	return result
}

// ClassifierPrompt builds the system instruction listing the intents, the
// category taxonomy and the JSON output contract.
func ClassifierPrompt(today time.Time) string {
	var sb strings.Builder
	sb.WriteString("Detect intent in one word out of these:\n\nspend, analytics, other\n\n")
	sb.WriteString("spend - related to logging a new expense/spend and nothing else.\n")
	sb.WriteString("analytics - related to the past spends/expenses or their analysis\n")
	sb.WriteString("other - any other apart from two\n\n")
	sb.WriteString("If it is a spend,\n\nthen it should contain the following stuff - what was the expense (i.e. description), amount, date, ")
	sb.WriteString("then you will detect the category and subcategory from below\n")
	for _, e := range models.Taxonomy {
		fmt.Fprintf(&sb, "%d. %s - %s\n", e.Number, e.Category, strings.Join(e.SubCategories, ", "))
	}
	fmt.Fprintf(&sb, "\nthe date is in YYYY-MM-DD format. default value - today - %s\n\n", today.Format(models.DateLayout))
	sb.WriteString("give output as\n\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"intent\": \"spend, analytics or other\",\n")
	sb.WriteString("  \"description\": \"description of the expense\",\n")
	sb.WriteString("  \"amount\": 100,\n")
	sb.WriteString("  \"category\": \"main category of the expense\",\n")
	sb.WriteString("  \"subCategory\": \"subcategory of the expense\",\n")
	sb.WriteString("  \"date\": \"date of the purchase in format YYYY-MM-DD\"\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Always include intent. Leave the other fields empty unless the intent is spend.")
	return sb.String()
}

type classifierPayload struct {
	Intent      string          `json:"intent"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Date        string          `json:"date"`
}

// ParseClassification validates a model payload. The returned error explains
// why a payload was rejected; the Classification is usable either way.
func ParseClassification(payload string, today time.Time) (Classification, error) {
	var p classifierPayload
	if err := json.Unmarshal([]byte(stripFences(payload)), &p); err != nil {
		return Classification{Kind: KindUnparseable}, fmt.Errorf("decoding payload: %w", err)
	}

	intent := strings.ToLower(strings.TrimSpace(p.Intent))
	if intent == "analytics" {
		return Classification{Kind: KindAnalytics}, nil
	}
	if strings.TrimSpace(p.Category) == "" && intent != "spend" {
		return Classification{Kind: KindOther}, nil
	}

	draft, err := p.spendDraft(today)
	if err != nil {
		return Classification{Kind: KindUnparseable}, err
	}
	return Classification{Kind: KindSpend, Spend: draft}, nil
}

func (p classifierPayload) spendDraft(today time.Time) (*SpendDraft, error) {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return nil, fmt.Errorf("missing description")
	}

	amount, err := parseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	category, ok := models.ParseCategory(p.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", p.Category)
	}

	sub := strings.TrimSpace(p.SubCategory)
	if sub == "" {
		return nil, fmt.Errorf("missing subcategory")
	}

	return &SpendDraft{
		Description: desc,
		Amount:      amount,
		Category:    category,
		SubCategory: sub,
		Date:        parseDate(p.Date, today),
	}, nil
}

// parseAmount accepts a JSON number or a numeric string ("12.50").
func parseAmount(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("missing amount")
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(strings.ReplaceAll(unquoted, ",", ""))
	}
	minor, err := models.ParseMinorUnits(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return minor, nil
}

func parseDate(raw string, today time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(models.DateLayout, raw); err == nil {
		return models.Day(t)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return models.Day(t)
	}
	return models.Day(today)
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
