package accounts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/ledger"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart(decimal.Zero)
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestByName(t *testing.T) {
	svc := NewService(DefaultChart(decimal.Zero))

	acct, ok := svc.ByName(SalesRevenue)
	assert.True(t, ok)
	assert.Equal(t, ledger.Income, acct.Type)

	_, ok = svc.ByName("Petty Cash")
	assert.False(t, ok)
}

func TestBuild(t *testing.T) {
	svc := NewService(DefaultChart(decimal.NewFromInt(1000)))
	l, err := svc.Build()
	require.NoError(t, err)

	assert.Len(t, l.Accounts(), 8)
	cash, err := l.Account(Cash)
	require.NoError(t, err)
	assert.Equal(t, "25000", cash.Balance().String())
	assert.True(t, l.BalanceSheet().IsBalanced(), "default chart opens balanced")
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	svc := NewService([]Account{
		{ID: 1, Name: "Cash", Type: ledger.Asset},
		{ID: 2, Name: "Cash", Type: ledger.Asset},
	})
	_, err := svc.Build()
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)
}

func TestLoadFromTestdata(t *testing.T) {
	dir := t.TempDir()
	acctDir := filepath.Join(dir, "accounts")
	require.NoError(t, os.MkdirAll(acctDir, 0o755))

	src, err := os.ReadFile("testdata/chart-of-accounts.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ChartPath(dir), src, 0o644))

	svc, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 7)

	acct, ok := svc.ByName("Sales Revenue")
	require.True(t, ok)
	assert.Equal(t, ledger.Income, acct.Type)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestCarryForwardAndSave(t *testing.T) {
	svc := NewService(DefaultChart(decimal.Zero))
	l, err := svc.Build()
	require.NoError(t, err)

	cash, err := l.Account(Cash)
	require.NoError(t, err)
	sales, err := l.Account(SalesRevenue)
	require.NoError(t, err)

	e := ledger.NewJournalEntry(time.Now(), "sale")
	require.NoError(t, e.AddLine(cash, decimal.NewFromInt(50), ledger.Debit))
	require.NoError(t, e.AddLine(sales, decimal.NewFromInt(50), ledger.Credit))
	require.NoError(t, l.RecordEntry(e))

	require.NoError(t, svc.CarryForward(l))

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	svc2, err := Load(dir)
	require.NoError(t, err)
	got, ok := svc2.ByName(Cash)
	require.True(t, ok)
	assert.Equal(t, "25050", got.Opening.String())
	got, ok = svc2.ByName(SalesRevenue)
	require.True(t, ok)
	assert.Equal(t, "50", got.Opening.String())
}

func TestCarryForwardMissingAccount(t *testing.T) {
	svc := NewService([]Account{{ID: 1, Name: "Cash", Type: ledger.Asset}})
	err := svc.CarryForward(ledger.New())
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestCarryForwardKeepsSubCentBalances(t *testing.T) {
	svc := NewService(DefaultChart(decimal.NewFromInt(17000)))
	l, err := svc.Build()
	require.NoError(t, err)

	cogs, err := l.Account(CostOfGoodsSold)
	require.NoError(t, err)
	stock, err := l.Account(Inventory)
	require.NoError(t, err)

	e := ledger.NewJournalEntry(time.Now(), "cost of one unit")
	require.NoError(t, e.AddLine(cogs, decimal.RequireFromString("0.005"), ledger.Debit))
	require.NoError(t, e.AddLine(stock, decimal.RequireFromString("0.005"), ledger.Credit))
	require.NoError(t, l.RecordEntry(e))
	require.NoError(t, svc.CarryForward(l))

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	got, ok := reloaded.ByName(Inventory)
	require.True(t, ok)
	assert.Equal(t, "16999.995", got.Opening.String())

	l2, err := reloaded.Build()
	require.NoError(t, err)
	bs := l2.BalanceSheet()
	assert.True(t, bs.IsBalanced(), "reloaded chart out of balance by %s", bs.Difference())
}
