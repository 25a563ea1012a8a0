package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/domain/shared"
	"github.com/taxdesk/backend/internal/domain/shared/valueobject"
)

func newTestTransaction(t *testing.T, tenantID uuid.UUID, direction recon.TransactionDirection, amount int64) *recon.BankTransaction {
	t.Helper()
	tx, err := recon.NewBankTransaction(
		tenantID,
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		direction,
		"NEFT Payment INV-100 Acme Traders",
		"INV-100",
		valueobject.NewMoneyINR(decimal.NewFromInt(amount)),
		"Acme Traders",
		"",
		nil,
	)
	require.NoError(t, err)
	return tx
}

func TestGormBankTransactionRepository_SaveAndFind(t *testing.T) {
	db := setupReconTestDB(t)
	repo := NewGormBankTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves and finds transaction", func(t *testing.T) {
		tx := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 10000)
		require.NoError(t, repo.Save(ctx, tx))

		found, err := repo.FindByIDForTenant(ctx, tenantID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-100", found.RefNo)
		assert.Equal(t, recon.TransactionDirectionCredit, found.Direction)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(10000)))
		assert.False(t, found.IsMatched())
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("does not leak transactions across tenants", func(t *testing.T) {
		tx := newTestTransaction(t, tenantID, recon.TransactionDirectionDebit, 500)
		require.NoError(t, repo.Save(ctx, tx))

		_, err := repo.FindByIDForTenant(ctx, uuid.New(), tx.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("persists match state", func(t *testing.T) {
		tx := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 2500)
		require.NoError(t, repo.Save(ctx, tx))

		invoiceID := uuid.New()
		require.NoError(t, tx.RecordMatch(invoiceID, 95, false))
		require.NoError(t, repo.Save(ctx, tx))

		found, err := repo.FindByIDForTenant(ctx, tenantID, tx.ID)
		require.NoError(t, err)
		assert.True(t, found.IsMatched())
		require.NotNil(t, found.MatchedInvoiceID)
		assert.Equal(t, invoiceID, *found.MatchedInvoiceID)
		require.NotNil(t, found.MatchScore)
		assert.Equal(t, 95, *found.MatchScore)
	})

	t.Run("persists suggestion state", func(t *testing.T) {
		tx := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 3000)
		require.NoError(t, repo.Save(ctx, tx))

		invoiceID := uuid.New()
		require.NoError(t, tx.RecordSuggestion(invoiceID, 85))
		require.NoError(t, repo.Save(ctx, tx))

		found, err := repo.FindByIDForTenant(ctx, tenantID, tx.ID)
		require.NoError(t, err)
		assert.False(t, found.IsMatched())
		require.NotNil(t, found.SuggestedInvoiceID)
		assert.Equal(t, invoiceID, *found.SuggestedInvoiceID)
		require.NotNil(t, found.SuggestedScore)
		assert.Equal(t, 85, *found.SuggestedScore)
	})
}

func TestGormBankTransactionRepository_FindAllForTenant(t *testing.T) {
	db := setupReconTestDB(t)
	repo := NewGormBankTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	matched := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 100)
	require.NoError(t, matched.RecordMatch(uuid.New(), 100, true))
	unmatchedCredit := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 200)
	debit := newTestTransaction(t, tenantID, recon.TransactionDirectionDebit, 300)

	require.NoError(t, repo.SaveAll(ctx, []recon.BankTransaction{*matched, *unmatchedCredit, *debit}))

	t.Run("returns all with total", func(t *testing.T) {
		txs, total, err := repo.FindAllForTenant(ctx, tenantID, recon.TransactionFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, txs, 3)
	})

	t.Run("filters by matched", func(t *testing.T) {
		isMatched := true
		txs, total, err := repo.FindAllForTenant(ctx, tenantID, recon.TransactionFilter{
			Filter:  shared.DefaultFilter(),
			Matched: &isMatched,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, txs, 1)
		assert.Equal(t, matched.ID, txs[0].ID)
	})

	t.Run("filters by unmatched and direction", func(t *testing.T) {
		notMatched := false
		credit := recon.TransactionDirectionCredit
		txs, total, err := repo.FindAllForTenant(ctx, tenantID, recon.TransactionFilter{
			Filter:    shared.DefaultFilter(),
			Matched:   &notMatched,
			Direction: &credit,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, txs, 1)
		assert.Equal(t, unmatchedCredit.ID, txs[0].ID)
	})
}

func TestGormBankTransactionRepository_FindUnmatched(t *testing.T) {
	db := setupReconTestDB(t)
	repo := NewGormBankTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 100)
	second := newTestTransaction(t, tenantID, recon.TransactionDirectionDebit, 200)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	matched := newTestTransaction(t, tenantID, recon.TransactionDirectionCredit, 300)
	require.NoError(t, matched.RecordMatch(uuid.New(), 100, true))
	other := newTestTransaction(t, uuid.New(), recon.TransactionDirectionCredit, 400)

	require.NoError(t, repo.SaveAll(ctx, []recon.BankTransaction{*first, *second, *matched, *other}))

	txs, err := repo.FindUnmatched(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, first.ID, txs[0].ID)
	assert.Equal(t, second.ID, txs[1].ID)
}
