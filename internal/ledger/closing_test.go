package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseProfit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.l.RecordEntries(
		entry(t, "sale", dr(f.cash, "500"), cr(f.sales, "500")),
		entry(t, "cogs", dr(f.cogs, "300"), cr(f.inventory, "300")),
	))

	closing, err := f.l.Close(day, "Retained Earnings")
	require.NoError(t, err)
	require.NotNil(t, closing)
	assert.Equal(t, ClosingDescription, closing.Description())
	assert.Len(t, closing.Lines(), 3)

	assert.True(t, f.sales.Balance().IsZero())
	assert.True(t, f.cogs.Balance().IsZero())
	assert.Equal(t, "200", f.retained.Balance().String())

	bs := f.l.BalanceSheet()
	assert.True(t, bs.NetIncome().IsZero())
	assert.True(t, bs.IsBalanced())
}

func TestCloseLoss(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.l.RecordEntries(
		entry(t, "sale", dr(f.cash, "100"), cr(f.sales, "100")),
		entry(t, "cogs", dr(f.cogs, "250"), cr(f.inventory, "250")),
	))

	_, err := f.l.Close(day, "Retained Earnings")
	require.NoError(t, err)
	assert.Equal(t, "-150", f.retained.Balance().String())
	assert.True(t, f.l.BalanceSheet().IsBalanced())
}

func TestCloseNegativeIncomeBalance(t *testing.T) {
	f := newFixture(t)
	// A refund pushes revenue below zero.
	require.NoError(t, f.l.RecordEntry(entry(t, "refund", dr(f.sales, "40"), cr(f.cash, "40"))))
	require.Equal(t, "-40", f.sales.Balance().String())

	_, err := f.l.Close(day, "Retained Earnings")
	require.NoError(t, err)
	assert.True(t, f.sales.Balance().IsZero())
	assert.Equal(t, "-40", f.retained.Balance().String())
}

func TestCloseNothingToClose(t *testing.T) {
	f := newFixture(t)
	closing, err := f.l.Close(day, "Retained Earnings")
	require.NoError(t, err)
	assert.Nil(t, closing)
	assert.Empty(t, f.l.Entries())
}

func TestClosingEntryDoesNotRecord(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.l.RecordEntry(entry(t, "sale", dr(f.cash, "10"), cr(f.sales, "10"))))

	closing, err := f.l.ClosingEntry(day, "Retained Earnings")
	require.NoError(t, err)
	assert.True(t, closing.IsBalanced())
	assert.Equal(t, "10", f.sales.Balance().String())
	assert.Len(t, f.l.Entries(), 1)
}

func TestCloseRequiresEquityTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.l.Close(day, "Cash")
	assert.ErrorIs(t, err, ErrInvalidAccountType)

	_, err = f.l.Close(day, "Nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
