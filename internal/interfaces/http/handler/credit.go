package handler

import (
	lendingapp "github.com/creditline/backend/internal/application/lending"
	"github.com/creditline/backend/internal/domain/lending"
	"github.com/gin-gonic/gin"
)

// CreditHandler serves /credits
type CreditHandler struct {
	BaseHandler
	creditService *lendingapp.CreditService
}

// NewCreditHandler creates a handler backed by creditService
func NewCreditHandler(creditService *lendingapp.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// Submit registers a credit request.
// POST /credits
func (h *CreditHandler) Submit(c *gin.Context) {
	var req lendingapp.SubmitCreditRequest
	if !h.bind(c, &req) {
		return
	}

	credit, err := h.creditService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, credit)
}

// ListByCustomer returns the summaries of a customer's credits, oldest
// first. An unknown customer has an empty list.
// GET /credits?customer_id=
func (h *CreditHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := h.queryCustomerID(c)
	if !ok {
		return
	}

	items, err := h.creditService.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, int64(len(items)))
}

// FindByCode returns one credit owned by the given customer.
// GET /credits/:code?customer_id=
func (h *CreditHandler) FindByCode(c *gin.Context) {
	customerID, ok := h.queryCustomerID(c)
	if !ok {
		return
	}

	// A malformed code is reported exactly like an unknown one
	code, err := lending.ParseCode(c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	credit, err := h.creditService.FindByCode(c.Request.Context(), customerID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}
