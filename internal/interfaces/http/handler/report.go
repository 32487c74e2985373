package handler

import (
	"context"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ReportService aggregates entries, payouts and expenses over a period
type ReportService interface {
	Daily(ctx context.Context, f financeapp.DailyReportFilter) (*financeapp.DailyReportResponse, error)
	StaffPayouts(ctx context.Context, f financeapp.StaffPayoutReportFilter) (*financeapp.StaffPayoutReportResponse, error)
}

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	reports ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Daily godoc
// @ID           getDailyReport
// @Summary      Daily revenue, payout and expense totals
// @Description  Groups the period by service date or by check date. Days without activity are omitted.
// @Tags         reports
// @Produce      json
// @Param        from     query string true  "Period start (YYYY-MM-DD)"
// @Param        to       query string true  "Period end, inclusive (YYYY-MM-DD)"
// @Param        group_by query string false "Date to group on" Enums(date, check_date) default(date)
// @Success      200 {object} APIResponse[financeapp.DailyReportResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	var filter financeapp.DailyReportFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	report, err := h.reports.Daily(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// StaffPayouts godoc
// @ID           getStaffPayoutReport
// @Summary      Payout totals per staff member
// @Tags         reports
// @Produce      json
// @Param        from     query string true  "Period start (YYYY-MM-DD)"
// @Param        to       query string true  "Period end, inclusive (YYYY-MM-DD)"
// @Param        staff_id query string false "Staff ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.StaffPayoutReportResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /reports/staff-payouts [get]
func (h *ReportHandler) StaffPayouts(c *gin.Context) {
	var filter financeapp.StaffPayoutReportFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	report, err := h.reports.StaffPayouts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
