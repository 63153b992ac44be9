package router

import (
	"github.com/creditline/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers mounted by Mount
type Handlers struct {
	Credit   *handler.CreditHandler
	Customer *handler.CustomerHandler
	System   *handler.SystemHandler
}

// CreditRoutes returns the credit endpoints. idempotency guards submission
// and may be nil.
func CreditRoutes(h *handler.CreditHandler, idempotency gin.HandlerFunc) *DomainGroup {
	submit := []gin.HandlerFunc{h.Submit}
	if idempotency != nil {
		submit = append([]gin.HandlerFunc{idempotency}, submit...)
	}

	return NewDomainGroup("lending", "/credits").
		POST("", submit...).
		GET("", h.ListByCustomer).
		GET("/:code", h.FindByCode)
}

// CustomerRoutes returns the customer endpoints
func CustomerRoutes(h *handler.CustomerHandler) *DomainGroup {
	return NewDomainGroup("partner", "/customers").
		POST("", h.Create).
		PATCH("", h.Update).
		GET("/:id", h.GetByID).
		DELETE("/:id", h.Delete)
}

// SystemRoutes returns the system information endpoints
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}

// Mount registers every API route on engine, plus /health at the root.
func Mount(engine *gin.Engine, h Handlers, idempotency gin.HandlerFunc, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, opts...).
		Register(CreditRoutes(h.Credit, idempotency)).
		Register(CustomerRoutes(h.Customer)).
		Register(SystemRoutes(h.System))
	r.Setup()
	return r
}
