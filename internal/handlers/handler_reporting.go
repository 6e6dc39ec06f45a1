package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_reports/internal/core/ports/services"
	"github.com/SscSPs/ledger_reports/internal/dto"
	"github.com/SscSPs/ledger_reports/internal/middleware"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	// Reports are nested under a specific organization
	reportingGroup := rg.Group("/organizations/:organization_id/reports")
	{
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
		reportingGroup.GET("/encumbrance", h.getTotalEncumbered)
		reportingGroup.GET("/encumbrance/by-tag", h.getEncumbranceByTag)
		reportingGroup.GET("/net-income/by-tag", h.getNetIncomeByTag)
	}
}

// requestLogger returns the request logger enriched with user and organization.
func requestLogger(c *gin.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, _ := middleware.GetUserIDFromContext(c)
	return logger.With(
		slog.String("user_id", userID),
		slog.String("organization_id", c.Param("organization_id")),
	)
}

// bindReportQuery binds the query string into q and parses tag1..tag10. It writes the 400
// response itself and reports false on failure.
func bindReportQuery(c *gin.Context, logger *slog.Logger, q any) (domain.TagFilter, bool) {
	if err := c.ShouldBindQuery(q); err != nil {
		logger.Warn("Failed to bind report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters", Details: dto.FieldErrors(err)})
		return domain.TagFilter{}, false
	}
	tags, err := accounting.ParseTagFilter(dto.TagQuery(c.QueryArray))
	if err != nil {
		writeReportError(c, logger, err, "Invalid tag filter")
		return domain.TagFilter{}, false
	}
	return tags, true
}

// parseDates converts inclusive query dates; the first is a start, the rest are exclusive ends.
// A start later than an inclusive end is an invalid range.
func parseDates(c *gin.Context, logger *slog.Logger, start string, ends ...string) ([]time.Time, bool) {
	out := make([]time.Time, 0, len(ends)+1)
	from, err := dto.StartOf(start)
	if err != nil {
		logger.Warn("Invalid date", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Reason: string(apperrors.ReasonInvalidDateRange)})
		return nil, false
	}
	out = append(out, from)
	for _, end := range ends {
		t, err := dto.EndOf(end)
		if err != nil {
			logger.Warn("Invalid date", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Reason: string(apperrors.ReasonInvalidDateRange)})
			return nil, false
		}
		if !from.IsZero() && !t.IsZero() && !from.Before(t) {
			msg := fmt.Sprintf("start date %s is after end date %s", start, end)
			logger.Warn("Invalid date range", slog.String("error", msg))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg, Reason: string(apperrors.ReasonInvalidDateRange)})
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// writeReportError maps service errors onto HTTP status codes.
func writeReportError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	reason, _ := apperrors.ReasonOf(err)
	body := dto.ErrorResponse{Error: err.Error(), Reason: string(reason)}

	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidRange):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, body)
	case reason == apperrors.ReasonUnknownOrganization:
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, body)
	case errors.Is(err, apperrors.ErrConfiguration):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, body)
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msg})
	}
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Generates an income statement for an inclusive date range, optionally compared with a second range
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param thruDate query string true "End date, inclusive (YYYY-MM-DD)"
// @Param fiscalType query string false "Fiscal type" default(ACTUAL)
// @Param groupByTags query bool false "Return per-tag balances"
// @Param compareFromDate query string false "Comparison start date (YYYY-MM-DD)"
// @Param compareThruDate query string false "Comparison end date (YYYY-MM-DD)"
// @Param tag1 query []string false "Tag slot 1 values" collectionFormat(multi)
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 422 {object} dto.ErrorResponse "Organization configuration incomplete"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.IncomeStatementQuery
	tags, ok := bindReportQuery(c, logger, &q)
	if !ok {
		return
	}
	dates, ok := parseDates(c, logger, q.FromDate, q.ThruDate)
	if !ok {
		return
	}

	req := domain.IncomeStatementRequest{
		OrganizationID: c.Param("organization_id"),
		FromDate:       dates[0],
		ThruDate:       dates[1],
		FiscalType:     domain.FiscalType(q.FiscalType),
		Tags:           tags,
		GroupByTags:    q.GroupByTags,
	}
	logger.Info("Received request to generate income statement",
		slog.String("fromDate", q.FromDate), slog.String("thruDate", q.ThruDate))

	if q.CompareFromDate != "" || q.CompareThruDate != "" {
		compareDates, ok := parseDates(c, logger, q.CompareFromDate, q.CompareThruDate)
		if !ok {
			return
		}
		compare := req
		compare.FromDate, compare.ThruDate = compareDates[0], compareDates[1]

		cmp, err := h.reportingService.CompareIncomeStatements(c.Request.Context(), req, compare)
		if err != nil {
			writeReportError(c, logger, err, "Failed to generate comparative income statement")
			return
		}
		c.JSON(http.StatusOK, dto.ToComparisonResponse(cmp, dto.ToIncomeStatementResponse))
		return
	}

	stmt, err := h.reportingService.IncomeStatement(c.Request.Context(), req)
	if err != nil {
		writeReportError(c, logger, err, "Failed to generate income statement")
		return
	}
	logger.Info("Income statement generated successfully", slog.String("net_income", stmt.NetIncome.String()))
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(stmt))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet
// @Description Generates a balance sheet including all activity up to and including asOf
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param asOf query string true "Report date (YYYY-MM-DD)"
// @Param fiscalType query string false "Fiscal type" default(ACTUAL)
// @Param compareAsOf query string false "Comparison date (YYYY-MM-DD)"
// @Param tag1 query []string false "Tag slot 1 values" collectionFormat(multi)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 422 {object} dto.ErrorResponse "Organization configuration incomplete"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.AsOfQuery
	tags, ok := bindReportQuery(c, logger, &q)
	if !ok {
		return
	}
	dates, ok := parseDates(c, logger, "", q.AsOf)
	if !ok {
		return
	}

	req := domain.BalanceSheetRequest{
		OrganizationID: c.Param("organization_id"),
		AsOfDate:       dates[1],
		FiscalType:     domain.FiscalType(q.FiscalType),
		Tags:           tags,
	}
	logger.Info("Received request to generate balance sheet", slog.String("asOf", q.AsOf))

	if q.CompareAsOf != "" {
		compareDates, ok := parseDates(c, logger, "", q.CompareAsOf)
		if !ok {
			return
		}
		compare := req
		compare.AsOfDate = compareDates[1]

		cmp, err := h.reportingService.CompareBalanceSheets(c.Request.Context(), req, compare)
		if err != nil {
			writeReportError(c, logger, err, "Failed to generate comparative balance sheet")
			return
		}
		c.JSON(http.StatusOK, dto.ToComparisonResponse(cmp, dto.ToBalanceSheetResponse))
		return
	}

	sheet, err := h.reportingService.BalanceSheet(c.Request.Context(), req)
	if err != nil {
		writeReportError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	logger.Info("Balance sheet generated successfully", slog.Bool("is_balanced", sheet.IsBalanced))
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(sheet))
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a seven-section trial balance including all activity up to and including asOf
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param asOf query string true "Report date (YYYY-MM-DD)"
// @Param fiscalType query string false "Fiscal type" default(ACTUAL)
// @Param tag1 query []string false "Tag slot 1 values" collectionFormat(multi)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 422 {object} dto.ErrorResponse "Organization configuration incomplete"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.AsOfQuery
	tags, ok := bindReportQuery(c, logger, &q)
	if !ok {
		return
	}
	dates, ok := parseDates(c, logger, "", q.AsOf)
	if !ok {
		return
	}

	logger.Info("Received request to generate trial balance report", slog.String("asOf", q.AsOf))
	tb, err := h.reportingService.TrialBalance(c.Request.Context(), domain.TrialBalanceRequest{
		OrganizationID: c.Param("organization_id"),
		AsOfDate:       dates[1],
		FiscalType:     domain.FiscalType(q.FiscalType),
		Tags:           tags,
	})
	if err != nil {
		writeReportError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Bool("is_balanced", tb.IsBalanced))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getCashFlow godoc
// @Summary Generate cash flow statement
// @Description Generates an indirect-method cash flow statement for an inclusive date range
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param thruDate query string true "End date, inclusive (YYYY-MM-DD)"
// @Param fiscalType query string false "Fiscal type" default(ACTUAL)
// @Param compareFromDate query string false "Comparison start date (YYYY-MM-DD)"
// @Param compareThruDate query string false "Comparison end date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 422 {object} dto.ErrorResponse "Organization configuration incomplete"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.CashFlowQuery
	if _, ok := bindReportQuery(c, logger, &q); !ok {
		return
	}
	dates, ok := parseDates(c, logger, q.FromDate, q.ThruDate)
	if !ok {
		return
	}

	req := domain.CashFlowRequest{
		OrganizationID: c.Param("organization_id"),
		FromDate:       dates[0],
		ThruDate:       dates[1],
		FiscalType:     domain.FiscalType(q.FiscalType),
	}
	logger.Info("Received request to generate cash flow statement",
		slog.String("fromDate", q.FromDate), slog.String("thruDate", q.ThruDate))

	if q.CompareFromDate != "" || q.CompareThruDate != "" {
		compareDates, ok := parseDates(c, logger, q.CompareFromDate, q.CompareThruDate)
		if !ok {
			return
		}
		compare := req
		compare.FromDate, compare.ThruDate = compareDates[0], compareDates[1]

		cmp, err := h.reportingService.CompareCashFlows(c.Request.Context(), req, compare)
		if err != nil {
			writeReportError(c, logger, err, "Failed to generate comparative cash flow statement")
			return
		}
		c.JSON(http.StatusOK, dto.ToComparisonResponse(cmp, dto.ToCashFlowResponse))
		return
	}

	cf, err := h.reportingService.CashFlow(c.Request.Context(), req)
	if err != nil {
		writeReportError(c, logger, err, "Failed to generate cash flow statement")
		return
	}
	logger.Info("Cash flow statement generated successfully", slog.Bool("is_reconciled", cf.IsReconciled))
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(cf))
}

// getTotalEncumbered godoc
// @Summary Total encumbered amount
// @Description Sums posted encumbrance activity up to and including asOf
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param asOf query string true "Report date (YYYY-MM-DD)"
// @Param tag1 query []string false "Tag slot 1 values" collectionFormat(multi)
// @Success 200 {object} dto.EncumbranceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute encumbrance"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/encumbrance [get]
func (h *reportingHandler) getTotalEncumbered(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.EncumbranceQuery
	tags, ok := bindReportQuery(c, logger, &q)
	if !ok {
		return
	}
	dates, ok := parseDates(c, logger, "", q.AsOf)
	if !ok {
		return
	}

	organizationID := c.Param("organization_id")
	total, err := h.reportingService.TotalEncumbered(c.Request.Context(), domain.EncumbranceRequest{
		OrganizationID: organizationID,
		AsOf:           dates[1],
		Tags:           tags,
	})
	if err != nil {
		writeReportError(c, logger, err, "Failed to compute total encumbered")
		return
	}
	c.JSON(http.StatusOK, dto.EncumbranceResponse{OrganizationID: organizationID, AsOf: q.AsOf, Total: total})
}

// getEncumbranceByTag godoc
// @Summary Encumbrance by tag
// @Description Breaks the encumbered amount down by the values of one tag slot
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param asOf query string true "Report date (YYYY-MM-DD)"
// @Param slot query int true "Tag slot (1-10)"
// @Success 200 {object} dto.TagAmountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute encumbrance"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/encumbrance/by-tag [get]
func (h *reportingHandler) getEncumbranceByTag(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.EncumbranceQuery
	tags, ok := bindReportQuery(c, logger, &q)
	if !ok {
		return
	}
	dates, ok := parseDates(c, logger, "", q.AsOf)
	if !ok {
		return
	}

	organizationID := c.Param("organization_id")
	byTag, err := h.reportingService.EncumbranceByTag(c.Request.Context(), domain.EncumbranceByTagRequest{
		OrganizationID: organizationID,
		AsOf:           dates[1],
		Slot:           q.Slot,
		Tags:           tags,
	})
	if err != nil {
		writeReportError(c, logger, err, "Failed to compute encumbrance by tag")
		return
	}
	c.JSON(http.StatusOK, dto.ToTagAmountsResponse(organizationID, q.Slot, byTag))
}

// getNetIncomeByTag godoc
// @Summary Net income by tag
// @Description Groups income-statement contributions of one or more fiscal types by the values of one tag slot
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param thruDate query string true "End date, inclusive (YYYY-MM-DD)"
// @Param fiscalType query []string false "Fiscal types" collectionFormat(multi)
// @Param slot query int true "Tag slot (1-10)"
// @Success 200 {object} dto.TagAmountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute net income"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/net-income/by-tag [get]
func (h *reportingHandler) getNetIncomeByTag(c *gin.Context) {
	logger := requestLogger(c)

	var q dto.NetIncomeByTagQuery
	tags, ok := bindReportQuery(c, logger, &q)
	if !ok {
		return
	}
	dates, ok := parseDates(c, logger, q.FromDate, q.ThruDate)
	if !ok {
		return
	}

	fiscalTypes := make([]domain.FiscalType, 0, len(q.FiscalTypes))
	for _, ft := range q.FiscalTypes {
		fiscalTypes = append(fiscalTypes, domain.FiscalType(ft))
	}

	organizationID := c.Param("organization_id")
	byTag, err := h.reportingService.NetIncomeByTag(c.Request.Context(), domain.NetIncomeByTagRequest{
		OrganizationID: organizationID,
		FromDate:       dates[0],
		ThruDate:       dates[1],
		FiscalTypes:    fiscalTypes,
		Slot:           q.Slot,
		Tags:           tags,
	})
	if err != nil {
		writeReportError(c, logger, err, "Failed to compute net income by tag")
		return
	}
	c.JSON(http.StatusOK, dto.ToTagAmountsResponse(organizationID, q.Slot, byTag))
}
