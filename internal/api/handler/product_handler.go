package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recibos/billing-system/internal/core/domain"
	"github.com/recibos/billing-system/internal/core/ports"
)

type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"         validate:"required"`
	GenericPrice float64 `json:"genericprice" validate:"required,gt=0"`
}

// List returns the product catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  map[string]string
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	products, err := h.service.List(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Create adds a product to the catalog.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product details"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product := &domain.Product{ID: req.ID, Name: req.Name, GenericPrice: req.GenericPrice}
	if err := h.service.Create(c.Request().Context(), key, product); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// Update replaces a product; changing the generic price never rewrites
// prices already snapshotted onto bill lines.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "New product fields"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product := &domain.Product{ID: req.ID, Name: req.Name, GenericPrice: req.GenericPrice}
	if err := h.service.Update(c.Request().Context(), key, product); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product updated"})
}

// Delete removes a product from the catalog.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), key, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}
