package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/core/ports"
)

type ReportHandler struct {
	balance ports.BalanceService
}

func NewReportHandler(balance ports.BalanceService) *ReportHandler {
	return &ReportHandler{balance: balance}
}

// Monthly returns sales and deposit totals grouped by calendar month.
// Months with no activity are omitted.
//
// @Summary      Monthly sales and deposits report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.PeriodAggregate
// @Failure      401  {object}  map[string]string
// @Router       /v1/reports/monthly [get]
func (h *ReportHandler) Monthly(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	report, err := h.balance.MonthlyReport(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
