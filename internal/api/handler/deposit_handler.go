package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

type DepositHandler struct {
	service ports.DepositService
}

func NewDepositHandler(service ports.DepositService) *DepositHandler {
	return &DepositHandler{service: service}
}

type depositRequest struct {
	ID       string `json:"id"`
	ClientID string `json:"clientid" validate:"required"`
	Currency string `json:"currency" validate:"required,oneof=PEN USD"`
	// Amount is in settlement currency units, already converted by the
	// caller; ExchangeRate records the rate that was applied (1 for PEN).
	Amount        float64 `json:"amount"        validate:"required,gt=0"`
	ExchangeRate  float64 `json:"changueamount" validate:"gte=0"`
	OperationCode string  `json:"operationcode"`
	Date          string  `json:"date"`
}

func (r *depositRequest) toDomain() (*domain.Deposit, error) {
	deposit := &domain.Deposit{
		ID:            r.ID,
		ClientID:      r.ClientID,
		Currency:      r.Currency,
		Amount:        r.Amount,
		ExchangeRate:  r.ExchangeRate,
		OperationCode: r.OperationCode,
	}
	if r.Date != "" {
		date, err := parseWireDate(r.Date)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "date must be ISO-8601")
		}
		deposit.Date = date
	}
	return deposit, nil
}

// List returns every deposit.
//
// @Summary      List deposits
// @Tags         deposits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Deposit
// @Failure      401  {object}  map[string]string
// @Router       /v1/deposits [get]
func (h *DepositHandler) List(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	deposits, err := h.service.List(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deposits)
}

// Create stores a new deposit.
//
// @Summary      Create a deposit
// @Tags         deposits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      depositRequest  true  "Deposit details"
// @Success      201   {object}  domain.Deposit
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/deposits [post]
func (h *DepositHandler) Create(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deposit, err := req.toDomain()
	if err != nil {
		return err
	}
	if err := h.service.Create(c.Request().Context(), key, deposit); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, deposit)
}

// Update replaces a deposit; unknown ids succeed silently.
//
// @Summary      Update a deposit
// @Tags         deposits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Deposit id"
// @Param        body  body      depositRequest  true  "New deposit fields"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/deposits/{id} [put]
func (h *DepositHandler) Update(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deposit, err := req.toDomain()
	if err != nil {
		return err
	}
	if err := h.service.Update(c.Request().Context(), key, deposit); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deposit updated"})
}

// Delete removes a deposit.
//
// @Summary      Delete a deposit
// @Tags         deposits
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Deposit id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/deposits/{id} [delete]
func (h *DepositHandler) Delete(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), key, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deposit deleted"})
}

// Search finds deposits whose client id or operation code contains the
// query, case-insensitively. A missing query is a 400.
//
// @Summary      Search deposits
// @Tags         deposits
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Substring to match"
// @Success      200  {array}   domain.Deposit
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/deposits/search [get]
func (h *DepositHandler) Search(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	deposits, err := h.service.Search(c.Request().Context(), key, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deposits)
}

// Range returns deposits dated within [start, end], bounds inclusive.
//
// @Summary      List deposits in a date range
// @Tags         deposits
// @Produce      json
// @Security     BearerAuth
// @Param        start  query  string  true  "Range start (ISO-8601)"
// @Param        end    query  string  true  "Range end (ISO-8601)"
// @Success      200  {array}   domain.Deposit
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/deposits/range [get]
func (h *DepositHandler) Range(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	start, end, err := parseRangeParams(c)
	if err != nil {
		return err
	}
	deposits, err := h.service.ListByDateRange(c.Request().Context(), key, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deposits)
}
