package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

// ClientHandler handles the customer directory, including the per-client
// balance, bill, and deposit views.
type ClientHandler struct {
	clients  ports.ClientService
	bills    ports.BillService
	deposits ports.DepositService
	balance  ports.BalanceService
}

func NewClientHandler(clients ports.ClientService, bills ports.BillService, deposits ports.DepositService, balance ports.BalanceService) *ClientHandler {
	return &ClientHandler{clients: clients, bills: bills, deposits: deposits, balance: balance}
}

type clientRequest struct {
	ID     string             `json:"id"`
	Name   string             `json:"name" validate:"required"`
	Prices map[string]float64 `json:"prices"`
}

type balanceResponse struct {
	ClientID string  `json:"client_id"`
	Balance  float64 `json:"balance"`
}

// List returns every client.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      401  {object}  map[string]string
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	clients, err := h.clients.List(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Create registers a new client.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client details"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client := &domain.Client{ID: req.ID, Name: req.Name, Prices: req.Prices}
	if err := h.clients.Create(c.Request().Context(), key, client); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Update replaces a client record; unknown ids succeed silently.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Client id"
// @Param        body  body      clientRequest  true  "New client fields"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client := &domain.Client{ID: req.ID, Name: req.Name, Prices: req.Prices}
	if err := h.clients.Update(c.Request().Context(), key, client); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "client updated"})
}

// Delete removes a client. Bills and deposits referencing it are untouched.
//
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	if err := h.clients.Delete(c.Request().Context(), key, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "client deleted"})
}

// Balance returns the client's outstanding balance: bills minus deposits.
//
// @Summary      Get a client's balance
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/clients/{id}/balance [get]
func (h *ClientHandler) Balance(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	clientID := c.Param("id")
	balance, err := h.balance.ClientBalance(c.Request().Context(), key, clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{ClientID: clientID, Balance: balance})
}

// Bills returns every bill charged to the client.
//
// @Summary      List a client's bills
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {array}   domain.Bill
// @Failure      401  {object}  map[string]string
// @Router       /v1/clients/{id}/bills [get]
func (h *ClientHandler) Bills(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	bills, err := h.bills.ListByClient(c.Request().Context(), key, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bills)
}

// Deposits returns every deposit received from the client.
//
// @Summary      List a client's deposits
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {array}   domain.Deposit
// @Failure      401  {object}  map[string]string
// @Router       /v1/clients/{id}/deposits [get]
func (h *ClientHandler) Deposits(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	deposits, err := h.deposits.ListByClient(c.Request().Context(), key, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deposits)
}
