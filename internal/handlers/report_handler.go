package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendchat/internal/errors"
	"spendchat/internal/logger"
	"spendchat/internal/pagination"
	"spendchat/internal/services"
)

// ReportHandler serves expense exports and listings to the dashboard.
type ReportHandler struct {
	userService    services.UserServicer
	reportService  services.ReportServicer
	expenseService services.ExpenseServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(userService services.UserServicer, reportService services.ReportServicer, expenseService services.ExpenseServicer) *ReportHandler {
	return &ReportHandler{
		userService:    userService,
		reportService:  reportService,
		expenseService: expenseService,
	}
}

// ExportRequest is the dashboard export payload.
type ExportRequest struct {
	From string `json:"from" binding:"required" example:"+15551230000"`
	Text string `json:"text" example:"analytics"`
}

// ExportCSV handles the dashboard CSV export
// @Summary     Export expenses as CSV
// @Description Returns up to 100 of the user's most recent expenses, newest first. No expenses, or an internal failure, yield an empty body.
// @Tags        reports
// @Accept      json
// @Produce     text/csv
// @Param       request body ExportRequest true "Sender number"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /webhook/ui [post]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	log := logger.For("report")

	user, err := h.userService.GetUserByPhone(req.From)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			respondWithError(c, err)
			return
		}
		log.Errorw("user lookup failed", "from", req.From, "error", err)
		writeCSV(c, nil)
		return
	}

	report, err := h.reportService.BuildReport(user.ID)
	if err != nil {
		log.Errorw("building report failed", "user_id", user.ID, "error", err)
		writeCSV(c, nil)
		return
	}

	data, err := report.CSV()
	if err != nil {
		log.Errorw("rendering report failed", "user_id", user.ID, "error", err)
		data = nil
	}
	writeCSV(c, data)
}

func writeCSV(c *gin.Context, data []byte) {
	c.Header("Content-Disposition", "attachment; filename=expenses.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// ListExpenses handles the paginated expense listing
// @Summary     List a user's expenses
// @Description Returns a page of the user's expenses, newest first
// @Tags        reports
// @Produce     json
// @Security    ApiKeyAuth
// @Param       phone     path  string true  "Phone number"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{phone}/expenses [get]
func (h *ReportHandler) ListExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.GetUserByPhone(c.Param("phone"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.expenseService.GetUserExpenses(user.ID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
