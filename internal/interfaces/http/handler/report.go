package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/leaseledger/backend/internal/application/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles agent payout report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.AgentReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.AgentReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ReportPeriodQuery represents the month/year period selector for reports
type ReportPeriodQuery struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
}

// MonthlyBreakdownQuery represents the year selector for the monthly breakdown
type MonthlyBreakdownQuery struct {
	Year int `form:"year" binding:"required,min=2000,max=2100"`
}

// AgentReport godoc
// @ID           getAgentReport
// @Summary      Get agent payout report
// @Description  Build the commission reconciliation report for an agent over a calendar month
// @Tags         reports
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        month query int true "Report month (1-12)"
// @Param        year query int true "Report year"
// @Success      200 {object} APIResponse[reportapp.AgentReport]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/report [get]
func (h *ReportHandler) AgentReport(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	var query ReportPeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rep, err := h.reportService.AgentReport(c.Request.Context(), agentID, time.Month(query.Month), query.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rep)
}

// MonthlyBreakdown godoc
// @ID           getAgentMonthlyBreakdown
// @Summary      Get agent monthly breakdown
// @Description  Summarize paid commission, chargebacks, advances, and net per month for a year
// @Tags         reports
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        year query int true "Breakdown year"
// @Success      200 {object} APIResponse[[]reportapp.MonthBucket]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/report/monthly [get]
func (h *ReportHandler) MonthlyBreakdown(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	var query MonthlyBreakdownQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buckets, err := h.reportService.MonthlyBreakdown(c.Request.Context(), agentID, query.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, buckets)
}

// Export godoc
// @ID           exportAgentReport
// @Summary      Export agent payout report
// @Description  Download the agent's monthly payout report as an XLSX workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Agent ID" format(uuid)
// @Param        month query int true "Report month (1-12)"
// @Param        year query int true "Report year"
// @Success      200 {file} binary
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/report/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	var query ReportPeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data, filename, err := h.reportService.ExportAgentReport(c.Request.Context(), agentID, time.Month(query.Month), query.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
