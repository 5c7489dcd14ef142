package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/ledger"
)

// Default account names used by the order workflow.
const (
	Cash               = "Cash"
	AccountsReceivable = "Accounts Receivable"
	Inventory          = "Inventory"
	AccountsPayable    = "Accounts Payable"
	OwnersCapital      = "Owner's Capital"
	RetainedEarnings   = "Retained Earnings"
	SalesRevenue       = "Sales Revenue"
	CostOfGoodsSold    = "Cost of Goods Sold"
)

// DefaultStartingCash is the cash the owner contributes in the default chart.
var DefaultStartingCash = decimal.NewFromInt(25000)

// DefaultChart returns the chart of a small trading business. The inventory
// account opens at inventoryValue and the owner's capital covers both the
// starting cash and that stock, so the opening position balances.
func DefaultChart(inventoryValue decimal.Decimal) []Account {
	return []Account{
		{ID: 1010, Name: Cash, Type: ledger.Asset, Opening: DefaultStartingCash, Description: "Cash on hand and in bank"},
		{ID: 1100, Name: AccountsReceivable, Type: ledger.Asset, Opening: decimal.Zero},
		{ID: 1200, Name: Inventory, Type: ledger.Asset, Opening: inventoryValue, Description: "Goods held for sale at cost"},
		{ID: 2010, Name: AccountsPayable, Type: ledger.Liability, Opening: decimal.Zero},
		{ID: 3010, Name: OwnersCapital, Type: ledger.Equity, Opening: DefaultStartingCash.Add(inventoryValue), Description: "Owner's contributed capital"},
		{ID: 3900, Name: RetainedEarnings, Type: ledger.Equity, Opening: decimal.Zero, Description: "Closed net income"},
		{ID: 4010, Name: SalesRevenue, Type: ledger.Income, Opening: decimal.Zero},
		{ID: 5010, Name: CostOfGoodsSold, Type: ledger.Expense, Opening: decimal.Zero, Description: "Cost of inventory sold"},
	}
}
