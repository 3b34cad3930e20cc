package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
	"github.com/munshibooks/munshi_backend/internal/dto"
	"github.com/munshibooks/munshi_backend/internal/middleware"
	"github.com/munshibooks/munshi_backend/internal/utils/periods"
)

// reportingHandler handles HTTP requests related to financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers report routes under a company scope.
func RegisterReportingRoutes(companyGroup *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := companyGroup.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/profit-loss", h.getProfitLoss)
		reports.GET("/periods", h.getPeriods)
	}
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Lists each account's debit and credit totals over the period, with balancing diagnostics.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param period query string false "Canonical period name" Enums(lastMonth, lastQuarter, currentYear, lastYear)
// @Param from query string false "Start date (YYYY-MM-DD), overrides period"
// @Param to query string false "End date (YYYY-MM-DD), overrides period"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	from, to, err := reportRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondReportError(c, logger, err, "trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate a balance sheet
// @Description Reports the cumulative position of asset, liability and equity accounts as of a date.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	asOfStr := c.DefaultQuery("asOf", time.Now().UTC().Format(dto.ISODate))
	asOf, err := time.Parse(dto.ISODate, asOfStr)
	if err != nil {
		logger.Warn("Invalid asOf date", slog.String("asOf", asOfStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date. Use YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		respondReportError(c, logger, err, "balance sheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getProfitLoss godoc
// @Summary Generate a profit and loss statement
// @Description Nets revenue against expenses over the period.
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param period query string false "Canonical period name" Enums(lastMonth, lastQuarter, currentYear, lastYear)
// @Param from query string false "Start date (YYYY-MM-DD), overrides period"
// @Param to query string false "End date (YYYY-MM-DD), overrides period"
// @Success 200 {object} dto.ProfitLossResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/profit-loss [get]
func (h *reportingHandler) getProfitLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	from, to, err := reportRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.ProfitLoss(c.Request.Context(), companyID, from, to)
	if err != nil {
		respondReportError(c, logger, err, "profit and loss")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitLossResponse(report))
}

// getPeriods godoc
// @Summary List canonical report periods
// @Description Returns the named date ranges (last month, last quarter, current year, last year) clients can pass as the period parameter.
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]map[string]string
// @Security BearerAuth
// @Router /companies/{company_id}/reports/periods [get]
func (h *reportingHandler) getPeriods(c *gin.Context) {
	out := make(map[string]map[string]string)
	for name, r := range periods.Canonical(time.Now().UTC()) {
		out[name] = map[string]string{
			"from": r.FromISO(),
			"to":   r.ToISO(),
		}
	}
	c.JSON(http.StatusOK, out)
}

// reportRange resolves the report window from explicit from/to parameters or
// a canonical period name, defaulting to the current year.
func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()

	if name := c.Query("period"); name != "" {
		r, ok := periods.Canonical(now)[name]
		if !ok {
			return time.Time{}, time.Time{}, errors.New("Unknown period. Use lastMonth, lastQuarter, currentYear or lastYear")
		}
		return r.From, r.To, nil
	}

	def := periods.CurrentYear(now)
	from, to := def.From, def.To

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dto.ISODate, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid from date. Use YYYY-MM-DD")
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dto.ISODate, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid to date. Use YYYY-MM-DD")
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to date must not precede from date")
	}
	return from, to, nil
}

func respondReportError(c *gin.Context, logger *slog.Logger, err error, report string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Company not found for report", slog.String("report", report))
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error generating report", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to generate report", slog.String("report", report), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate " + report + " report"})
	}
}
