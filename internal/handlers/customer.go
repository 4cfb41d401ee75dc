package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/repository"
	"github.com/yshebel/customerhub/internal/service"
)

type identifier struct {
	ID string `json:"id" validate:"required,uuid"`
}

type newCustomer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type patchCustomer struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
	Active  *bool   `json:"active"`
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// GetAll returns customers, optionally narrowed by free-text query
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	filter := listFilter(c)

	customers, err := h.customerSvc.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponses(customers))
}

// Get returns single customer by id
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Post creates new customer
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), &model.Customer{
		Name:    nc.Name,
		Email:   nc.Email,
		Phone:   nc.Phone,
		Company: nc.Company,
		Address: nc.Address,
		Notes:   nc.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Put partially updates customer, absent fields stay unchanged
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	var pc patchCustomer
	if err := c.Bind(&pc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&pc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), id, model.CustomerPatch{
		Name:    pc.Name,
		Email:   pc.Email,
		Phone:   pc.Phone,
		Company: pc.Company,
		Address: pc.Address,
		Notes:   pc.Notes,
		Active:  pc.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// DeleteByID soft-deletes customer, the record stays readable by id
// with active=false
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func listFilter(c echo.Context) repository.ListFilter {
	return repository.ListFilter{
		Query:           c.QueryParam("q"),
		IncludeInactive: c.QueryParam("includeInactive") == "true",
	}
}
