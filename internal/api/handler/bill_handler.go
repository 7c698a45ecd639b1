package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

type BillHandler struct {
	service ports.BillService
}

func NewBillHandler(service ports.BillService) *BillHandler {
	return &BillHandler{service: service}
}

type lineItemRequest struct {
	// Amount is the quantity in raw units; callers selling by the dozen
	// multiply before submitting.
	Amount       float64 `json:"amount" validate:"gt=0"`
	Price        float64 `json:"price"  validate:"gte=0"`
	ExtraDetails string  `json:"extraDetails"`
}

type billRequest struct {
	ID       string                       `json:"id"`
	ClientID string                       `json:"clientid" validate:"required"`
	Date     string                       `json:"date"`
	Products map[string][]lineItemRequest `json:"products" validate:"required,min=1"`
}

func (r *billRequest) toDomain() (*domain.Bill, error) {
	bill := &domain.Bill{
		ID:       r.ID,
		ClientID: r.ClientID,
		Products: make(map[string][]domain.LineItem, len(r.Products)),
	}
	if r.Date != "" {
		date, err := parseWireDate(r.Date)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "date must be ISO-8601")
		}
		bill.Date = date
	}
	for productID, lines := range r.Products {
		items := make([]domain.LineItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, domain.LineItem{
				Amount:       line.Amount,
				Price:        line.Price,
				ExtraDetails: line.ExtraDetails,
			})
		}
		bill.Products[productID] = items
	}
	return bill, nil
}

// List returns every bill.
//
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Bill
// @Failure      401  {object}  map[string]string
// @Router       /v1/bills [get]
func (h *BillHandler) List(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	bills, err := h.service.List(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bills)
}

// Create stores a new bill. The identifier in the response is always
// server-generated; anything the caller sent in that field is ignored.
//
// @Summary      Create a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      billRequest  true  "Bill details (identifier is output-only)"
// @Success      201   {object}  domain.Bill
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/bills [post]
func (h *BillHandler) Create(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req billRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bill, err := req.toDomain()
	if err != nil {
		return err
	}
	if err := h.service.Create(c.Request().Context(), key, bill); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bill)
}

// Update replaces a bill; unknown ids succeed silently.
//
// @Summary      Update a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Bill id"
// @Param        body  body      billRequest  true  "New bill fields"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/bills/{id} [put]
func (h *BillHandler) Update(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req billRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bill, err := req.toDomain()
	if err != nil {
		return err
	}
	if err := h.service.Update(c.Request().Context(), key, bill); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "bill updated"})
}

// Delete removes a bill.
//
// @Summary      Delete a bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Bill id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/bills/{id} [delete]
func (h *BillHandler) Delete(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), key, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "bill deleted"})
}

// Search finds bills whose identifier or client id contains the query,
// case-insensitively. A missing query is a 400.
//
// @Summary      Search bills
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Substring to match"
// @Success      200  {array}   domain.Bill
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/bills/search [get]
func (h *BillHandler) Search(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	bills, err := h.service.Search(c.Request().Context(), key, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bills)
}

// Range returns bills dated within [start, end], bounds inclusive.
// Both parameters are required ISO-8601 values.
//
// @Summary      List bills in a date range
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        start  query  string  true  "Range start (ISO-8601)"
// @Param        end    query  string  true  "Range end (ISO-8601)"
// @Success      200  {array}   domain.Bill
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/bills/range [get]
func (h *BillHandler) Range(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	start, end, err := parseRangeParams(c)
	if err != nil {
		return err
	}
	bills, err := h.service.ListByDateRange(c.Request().Context(), key, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bills)
}

// parseWireDate accepts RFC3339 timestamps and bare dates.
func parseWireDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseRangeParams reads the mandatory start/end query parameters.
func parseRangeParams(c echo.Context) (time.Time, time.Time, error) {
	startParam, endParam := c.QueryParam("start"), c.QueryParam("end")
	if startParam == "" || endParam == "" {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "start and end parameters are required")
	}
	start, err := parseWireDate(startParam)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "start must be ISO-8601")
	}
	end, err := parseWireDate(endParam)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "end must be ISO-8601")
	}
	return start, end, nil
}
