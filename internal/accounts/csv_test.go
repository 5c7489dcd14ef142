package accounts

import (
	"bytes"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/ledger"
)

func TestRoundTrip(t *testing.T) {
	accounts := []Account{
		{ID: 1010, Name: "Cash", Type: ledger.Asset, Opening: decimal.RequireFromString("1500.75"), Description: "Cash on hand"},
		{ID: 2010, Name: "Supplier Invoices", Type: ledger.Liability, Opening: decimal.NewFromInt(3000)},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, accounts[0].ID, got[0].ID)
	assert.Equal(t, accounts[0].Name, got[0].Name)
	assert.Equal(t, accounts[0].Type, got[0].Type)
	assert.True(t, accounts[0].Opening.Equal(got[0].Opening))
	assert.Equal(t, accounts[0].Description, got[0].Description)

	assert.Equal(t, accounts[1].ID, got[1].ID)
	assert.Equal(t, "3000", got[1].Opening.String())
}

func TestUnmarshalAccountErrors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"short row", []string{"1", "Cash"}, "expected 5 fields"},
		{"bad id", []string{"x", "Cash", "Asset", "0", ""}, "parsing account_id"},
		{"bad type", []string{"1", "Cash", "Money", "0", ""}, "parsing account_type"},
		{"bad opening", []string{"1", "Cash", "Asset", "lots", ""}, "parsing opening_balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalAccount(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadEmpty(t *testing.T) {
	got, err := ReadAccounts(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart(decimal.NewFromInt(18500))
	require.Len(t, chart, 8)

	names := make(map[string]Account)
	for _, acct := range chart {
		names[acct.Name] = acct
		assert.True(t, acct.Type.Valid(), "account %d has type %q", acct.ID, acct.Type)
	}
	for _, want := range []string{Cash, Inventory, OwnersCapital, RetainedEarnings, SalesRevenue, CostOfGoodsSold} {
		assert.Contains(t, names, want)
	}
	assert.Equal(t, "18500", names[Inventory].Opening.String())
	assert.Equal(t, "43500", names[OwnersCapital].Opening.String())
}

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("testdata/chart-of-accounts.csv")
	require.NoError(t, err)
	defer f.Close()

	accounts, err := ReadAccounts(f)
	require.NoError(t, err)
	require.Len(t, accounts, 7)

	types := make(map[ledger.AccountType]bool)
	for _, acct := range accounts {
		types[acct.Type] = true
	}
	for _, typ := range ledger.AccountTypes() {
		assert.True(t, types[typ], "missing %s", typ)
	}
	assert.True(t, accounts[6].Opening.IsZero(), "empty opening balance reads as zero")
}

func TestDefaultChartRoundTrip(t *testing.T) {
	chart := DefaultChart(decimal.RequireFromString("1234.50"))

	var buf bytes.Buffer
	err := WriteAccounts(&buf, chart)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(chart))

	for i := range chart {
		assert.Equal(t, chart[i].ID, got[i].ID)
		assert.Equal(t, chart[i].Name, got[i].Name)
		assert.Equal(t, chart[i].Type, got[i].Type)
		assert.True(t, chart[i].Opening.Equal(got[i].Opening), "opening of %s", chart[i].Name)
		assert.Equal(t, chart[i].Description, got[i].Description)
	}
}
