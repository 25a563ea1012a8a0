package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	reconapp "github.com/taxdesk/backend/internal/application/recon"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
)

func newTransactionTestRouter(txRepo *MockBankTransactionRepository) *gin.Engine {
	h := NewTransactionHandler(reconapp.NewTransactionService(txRepo))
	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine
}

func TestTransactionHandler_List(t *testing.T) {
	tenantID := uuid.New()

	t.Run("filters by direction and match state", func(t *testing.T) {
		tx := newCreditTransaction(t, tenantID, "UTR-100", decimal.NewFromInt(1200))
		repo := new(MockBankTransactionRepository)
		repo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f recon.TransactionFilter) bool {
			return f.Direction != nil && *f.Direction == recon.TransactionDirectionCredit &&
				f.Matched != nil && !*f.Matched
		})).Return([]recon.BankTransaction{*tx}, int64(1), nil)
		router := newTransactionTestRouter(repo)

		req := httptest.NewRequest("GET", "/api/v1/transactions?direction=CREDIT&matched=false", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []reconapp.TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "UTR-100", resp.Data[0].RefNo)
	})

	t.Run("rejects an invalid direction", func(t *testing.T) {
		router := newTransactionTestRouter(new(MockBankTransactionRepository))

		req := httptest.NewRequest("GET", "/api/v1/transactions?direction=UP", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandler_Get(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns 404 for an unknown transaction", func(t *testing.T) {
		repo := new(MockBankTransactionRepository)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).Return(nil, shared.ErrNotFound)
		router := newTransactionTestRouter(repo)

		req := httptest.NewRequest("GET", "/api/v1/transactions/"+uuid.NewString(), nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLedgerHandler_List(t *testing.T) {
	tenantID := uuid.New()
	txID := uuid.New()

	entry := recon.LedgerEntry{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		Date:          time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
		Description:   "Payment for INV-2024-001",
		DebitAccount:  recon.BankAccountName,
		CreditAccount: "Acme Traders",
		Amount:        decimal.NewFromInt(50000),
		TransactionID: txID,
	}

	repo := new(MockLedgerEntryRepository)
	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
		Return([]recon.LedgerEntry{entry}, int64(1), nil)

	h := NewLedgerHandler(reconapp.NewLedgerService(repo))
	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)

	req := httptest.NewRequest("GET", "/api/v1/ledger/entries", nil)
	req.Header.Set("X-Tenant-ID", tenantID.String())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []reconapp.LedgerEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, recon.BankAccountName, resp.Data[0].DebitAccount)
	assert.Equal(t, "Payment for INV-2024-001", resp.Data[0].Description)
}
