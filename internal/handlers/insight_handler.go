package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendchat/internal/services"
)

// InsightHandler produces one-line spending insights for the dashboard.
type InsightHandler struct {
	analyst services.Analyst
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(analyst services.Analyst) *InsightHandler {
	return &InsightHandler{analyst: analyst}
}

// InsightRequest carries the expense text to summarize.
type InsightRequest struct {
	Expenses string `json:"expenses" binding:"required"`
}

// InsightResponse is the generated insight.
type InsightResponse struct {
	Insight string `json:"insight"`
}

// GetInsight handles insight generation
// @Summary     Generate a spending insight
// @Description Summarizes the given expenses in a single line
// @Tags        reports
// @Accept      json
// @Produce     json
// @Param       request body InsightRequest true "Expenses as CSV text"
// @Success     200 {object} InsightResponse "Insight"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Insight generation failed"
// @Router      /getInsight [post]
func (h *InsightHandler) GetInsight(c *gin.Context) {
	var req InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	insight, err := h.analyst.Insight(c.Request.Context(), req.Expenses)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, InsightResponse{Insight: insight})
}
