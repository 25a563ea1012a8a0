package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), INR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, INR, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("NewMoneyINRFromString parses valid amount", func(t *testing.T) {
		m, err := NewMoneyINRFromString("1050.75")
		require.NoError(t, err)
		assert.Equal(t, "INR 1050.75", m.String())
	})

	t.Run("NewMoneyINRFromString rejects garbage", func(t *testing.T) {
		_, err := NewMoneyINRFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("Add sums matching currencies", func(t *testing.T) {
		a := NewMoneyINR(decimal.NewFromInt(100))
		b := NewMoneyINR(decimal.NewFromInt(50))
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))
	})

	t.Run("Add rejects mismatched currencies", func(t *testing.T) {
		a := NewMoneyINR(decimal.NewFromInt(100))
		b, _ := NewMoney(decimal.NewFromInt(50), USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("Subtract can go negative", func(t *testing.T) {
		a := NewMoneyINR(decimal.NewFromInt(50))
		b := NewMoneyINR(decimal.NewFromInt(100))
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("Abs removes sign", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromInt(-75))
		assert.True(t, m.Abs().Amount().Equal(decimal.NewFromInt(75)))
	})

	t.Run("Equals compares amount and currency", func(t *testing.T) {
		a := NewMoneyINR(decimal.NewFromFloat(10.50))
		b := NewMoneyINR(decimal.NewFromFloat(10.5))
		assert.True(t, a.Equals(b))
	})

	t.Run("LessThan compares amounts", func(t *testing.T) {
		a := NewMoneyINR(decimal.NewFromInt(10))
		b := NewMoneyINR(decimal.NewFromInt(20))
		less, err := a.LessThan(b)
		require.NoError(t, err)
		assert.True(t, less)
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trips through JSON", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromFloat(1234.56))
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("defaults missing currency to INR", func(t *testing.T) {
		var decoded Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"99.99"}`), &decoded))
		assert.Equal(t, INR, decoded.Currency())
	})
}
