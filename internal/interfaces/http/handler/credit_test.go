package handler

import (
	"net/http"
	"strconv"
	"testing"

	lendingapp "github.com/creditline/backend/internal/application/lending"
	"github.com/creditline/backend/internal/interfaces/http/dto"
	"github.com/creditline/backend/internal/interfaces/http/middleware"
	"github.com/creditline/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditHandler_Submit(t *testing.T) {
	srv := newTestServer(t)
	owner := testutil.SeedCustomer(t, srv.db, "1")

	w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", submitBody(owner.ID, 10, 12), nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := testutil.Decode[lendingapp.CreditResponse](t, w)
	assert.True(t, resp.Success)
	assert.NotEqual(t, uuid.Nil, resp.Data.CreditCode)
	assert.Equal(t, "IN_PROGRESS", resp.Data.Status)
	assert.Equal(t, owner.ID, resp.Data.CustomerID)
	assert.Equal(t, owner.Email, resp.Data.EmailCustomer)
	assert.True(t, decimal.RequireFromString("15000").Equal(resp.Data.CreditValue))
	assert.Equal(t, "2026-05-20", resp.Data.DayFirstInstallment.Format(lendingapp.DateLayout))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCreditHandler_Submit_Rejections(t *testing.T) {
	srv := newTestServer(t)
	owner := testutil.SeedCustomer(t, srv.db, "1")

	t.Run("rule violations list every rule", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", submitBody(owner.ID, 0, 300), nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		resp := testutil.Decode[any](t, w)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Equal(t, []string{"installment_range", "first_installment_in_future"}, fields)
	})

	t.Run("first installment at the 3 month boundary", func(t *testing.T) {
		body := submitBody(owner.ID, 0, 12)
		body["day_first_installment"] = "2026-08-10"
		w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", body, nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("unknown customer", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", submitBody(owner.ID+100, 10, 12), nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", map[string]any{"number_of_installments": 12}, nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		resp := testutil.Decode[any](t, w)
		assert.NotEmpty(t, resp.Error.Details)
	})

	t.Run("malformed date", func(t *testing.T) {
		body := submitBody(owner.ID, 10, 12)
		body["day_first_installment"] = "20/05/2026"
		w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", body, nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
	})

	var n int64
	require.NoError(t, srv.db.Table("credits").Count(&n).Error)
	assert.Zero(t, n, "rejected submissions must not be stored")
}

func TestCreditHandler_ListByCustomer(t *testing.T) {
	srv := newTestServer(t)
	owner := testutil.SeedCustomer(t, srv.db, "1")
	other := testutil.SeedCustomer(t, srv.db, "2")

	for _, installments := range []int{12, 6} {
		w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", submitBody(owner.ID, 10, installments), nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("lists the owner's credits in order", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodGet, "/credits?customer_id="+strconv.FormatInt(owner.ID, 10), nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.Decode[[]lendingapp.CreditListItem](t, w)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, 12, resp.Data[0].NumberOfInstallments)
		assert.Equal(t, 6, resp.Data[1].NumberOfInstallments)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
	})

	t.Run("customer without credits gets an empty list", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodGet, "/credits?customer_id="+strconv.FormatInt(other.ID, 10), nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("unknown customer gets an empty list", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodGet, "/credits?customer_id=999999", nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	for _, query := range []string{"", "?customer_id=abc", "?customer_id=0", "?customer_id=-4"} {
		t.Run("rejects customer_id "+query, func(t *testing.T) {
			w := testutil.DoJSON(t, srv.engine, http.MethodGet, "/credits"+query, nil, nil)
			testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
		})
	}
}

func TestCreditHandler_FindByCode(t *testing.T) {
	srv := newTestServer(t)
	owner := testutil.SeedCustomer(t, srv.db, "1")
	other := testutil.SeedCustomer(t, srv.db, "2")

	w := testutil.DoJSON(t, srv.engine, http.MethodPost, "/credits", submitBody(owner.ID, 10, 12), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	code := testutil.Decode[lendingapp.CreditResponse](t, w).Data.CreditCode.String()

	t.Run("owner sees the credit", func(t *testing.T) {
		w := testutil.DoJSON(t, srv.engine, http.MethodGet, "/credits/"+code+"?customer_id="+strconv.FormatInt(owner.ID, 10), nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.Decode[lendingapp.CreditResponse](t, w)
		assert.Equal(t, code, resp.Data.CreditCode.String())
		assert.Equal(t, owner.Email, resp.Data.EmailCustomer)
		assert.True(t, owner.Income.Equal(resp.Data.IncomeCustomer))
	})

	notFound := func(t *testing.T, path string) string {
		t.Helper()
		w := testutil.DoJSON(t, srv.engine, http.MethodGet, path, nil, nil)
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeNotFound)
		return testutil.Decode[any](t, w).Error.Message
	}

	wrongOwner := notFound(t, "/credits/"+code+"?customer_id="+strconv.FormatInt(other.ID, 10))
	unknown := notFound(t, "/credits/"+uuid.NewString()+"?customer_id="+strconv.FormatInt(owner.ID, 10))
	malformed := notFound(t, "/credits/not-a-uuid?customer_id="+strconv.FormatInt(owner.ID, 10))

	assert.Equal(t, unknown, wrongOwner)
	assert.Equal(t, unknown, malformed)
}
