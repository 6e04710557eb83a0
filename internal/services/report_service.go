package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"spendchat/internal/models"
	"spendchat/internal/pagination"
)

// ReportWindow is the maximum number of expenses in a report.
const ReportWindow = 100

// ReportHeader is the CSV header row of an exported report.
var ReportHeader = []string{"Description", "Amount", "Category", "Sub Category", "Date"}

// ReportRow is one expense rendered for display.
type ReportRow struct {
	Description string
	Amount      string
	Category    string
	SubCategory string
	Date        string
}

// Report is a user's recent expenses, newest first.
type Report struct {
	Rows []ReportRow
}

// Empty reports whether the report has no rows.
func (r *Report) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// CSV renders the report with a header row. An empty report renders as no
// bytes at all.
func (r *Report) CSV() ([]byte, error) {
	if r.Empty() {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ReportHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range r.Rows {
		if err := w.Write([]string{row.Description, row.Amount, row.Category, row.SubCategory, row.Date}); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// reportService builds reports from stored expenses.
type reportService struct {
	users    UserServicer
	expenses ExpenseServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(users UserServicer, expenses ExpenseServicer) ReportServicer {
	return &reportService{users: users, expenses: expenses}
}

// BuildReport returns up to ReportWindow of the user's most recent expenses.
// A user without expenses gets an empty report, not an error.
func (s *reportService) BuildReport(userID string) (*Report, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	page, err := s.expenses.GetUserExpenses(userID, pagination.FirstPage(ReportWindow))
	if err != nil {
		return nil, err
	}

	report := &Report{Rows: make([]ReportRow, 0, len(page.Data))}
	for _, e := range page.Data {
		report.Rows = append(report.Rows, ReportRow{
			Description: e.Description,
			Amount:      models.DisplayAmount(user.Currency, e.Amount),
			Category:    e.Category,
			SubCategory: e.SubCategory,
			Date:        e.Date.UTC().Format(models.DateLayout),
		})
	}
	return report, nil
}
