package handler

import (
	"testing"

	lendingapp "github.com/creditline/backend/internal/application/lending"
	partnerapp "github.com/creditline/backend/internal/application/partner"
	"github.com/creditline/backend/internal/domain/lending"
	"github.com/creditline/backend/internal/domain/shared"
	"github.com/creditline/backend/internal/infrastructure/persistence"
	"github.com/creditline/backend/internal/interfaces/http/middleware"
	"github.com/creditline/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer serves the credit and customer handlers over an in-memory store
// whose clock is fixed at testutil.FixedNow.
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	customerSvc := partnerapp.NewCustomerService(persistence.NewGormCustomerRepository(db))
	creditSvc := lendingapp.NewCreditService(
		persistence.NewGormCreditRepository(db),
		customerSvc,
		lending.NewValidator(shared.FixedClock{At: testutil.FixedNow}),
		lending.UUIDGenerator{},
	)

	credits := NewCreditHandler(creditSvc)
	customers := NewCustomerHandler(customerSvc)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.POST("/credits", credits.Submit)
	engine.GET("/credits", credits.ListByCustomer)
	engine.GET("/credits/:code", credits.FindByCode)
	engine.POST("/customers", customers.Create)
	engine.PATCH("/customers", customers.Update)
	engine.GET("/customers/:id", customers.GetByID)
	engine.DELETE("/customers/:id", customers.Delete)

	return &testServer{engine: engine, db: db}
}

func submitBody(customerID int64, days, installments int) map[string]any {
	return map[string]any{
		"credit_value":           "15000.00",
		"day_first_installment":  testutil.DaysFrom(testutil.FixedNow, days),
		"number_of_installments": installments,
		"customer_id":            customerID,
	}
}
