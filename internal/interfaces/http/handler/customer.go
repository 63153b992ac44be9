package handler

import (
	partnerapp "github.com/creditline/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves /customers
type CustomerHandler struct {
	BaseHandler
	customers *partnerapp.CustomerService
}

// NewCustomerHandler creates a handler backed by customers
func NewCustomerHandler(customers *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if !h.bind(c, &req) {
		return
	}
	if customer, err := h.customers.Create(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
	} else {
		h.Created(c, customer)
	}
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if customer, err := h.customers.GetByID(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
	} else {
		h.Success(c, customer)
	}
}

// Update handles PATCH /customers?customer_id=. Absent fields keep their
// stored value.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.queryCustomerID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bind(c, &req) {
		return
	}
	if customer, err := h.customers.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
	} else {
		h.Success(c, customer)
	}
}

// Delete handles DELETE /customers/:id. The customer's credits go with it.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
