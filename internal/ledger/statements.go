package ledger

import (
	"github.com/shopspring/decimal"
)

// BalanceLine is one account's balance on a statement.
type BalanceLine struct {
	Name    string
	Type    AccountType
	Balance decimal.Decimal
}

// BalanceSheet aggregates asset, liability and equity balances at a point in
// time. Income and expense accounts that have not been closed are carried as
// NetIncome so the sheet still balances.
type BalanceSheet struct {
	assets      []BalanceLine
	liabilities []BalanceLine
	equity      []BalanceLine
	netIncome   decimal.Decimal
}

func (b BalanceSheet) Assets() []BalanceLine      { return b.assets }
func (b BalanceSheet) Liabilities() []BalanceLine { return b.liabilities }
func (b BalanceSheet) Equity() []BalanceLine      { return b.equity }

func (b BalanceSheet) TotalAssets() decimal.Decimal      { return sum(b.assets) }
func (b BalanceSheet) TotalLiabilities() decimal.Decimal { return sum(b.liabilities) }
func (b BalanceSheet) TotalEquity() decimal.Decimal      { return sum(b.equity) }

// NetIncome is income minus expense not yet closed into equity.
func (b BalanceSheet) NetIncome() decimal.Decimal { return b.netIncome }

// Lines returns assets, then liabilities, then equity.
func (b BalanceSheet) Lines() []BalanceLine {
	out := make([]BalanceLine, 0, len(b.assets)+len(b.liabilities)+len(b.equity))
	out = append(out, b.assets...)
	out = append(out, b.liabilities...)
	return append(out, b.equity...)
}

// Line looks up a balance by account name.
func (b BalanceSheet) Line(name string) (BalanceLine, bool) {
	for _, l := range b.Lines() {
		if l.Name == name {
			return l, true
		}
	}
	return BalanceLine{}, false
}

// Difference is assets - (liabilities + equity + net income). Zero for a
// consistent ledger.
func (b BalanceSheet) Difference() decimal.Decimal {
	return b.TotalAssets().Sub(b.TotalLiabilities()).Sub(b.TotalEquity()).Sub(b.netIncome)
}

// IsBalanced reports whether assets = liabilities + equity + net income.
func (b BalanceSheet) IsBalanced() bool {
	return b.Difference().IsZero()
}

// IncomeStatement aggregates income and expense balances.
type IncomeStatement struct {
	revenue  []BalanceLine
	expenses []BalanceLine
}

func (s IncomeStatement) Revenue() []BalanceLine  { return s.revenue }
func (s IncomeStatement) Expenses() []BalanceLine { return s.expenses }

func (s IncomeStatement) TotalRevenue() decimal.Decimal  { return sum(s.revenue) }
func (s IncomeStatement) TotalExpenses() decimal.Decimal { return sum(s.expenses) }

// NetIncome is total revenue minus total expenses; negative for a loss.
func (s IncomeStatement) NetIncome() decimal.Decimal {
	return s.TotalRevenue().Sub(s.TotalExpenses())
}

// BalanceSheet builds a balance sheet from the current account balances.
func (l *Ledger) BalanceSheet() BalanceSheet {
	l.mu.Lock()
	defer l.mu.Unlock()

	var bs BalanceSheet
	income := l.incomeStatement()
	bs.netIncome = income.NetIncome()
	for _, name := range l.order {
		a := l.accounts[name]
		line := BalanceLine{Name: a.name, Type: a.typ, Balance: a.balance}
		switch a.typ {
		case Asset:
			bs.assets = append(bs.assets, line)
		case Liability:
			bs.liabilities = append(bs.liabilities, line)
		case Equity:
			bs.equity = append(bs.equity, line)
		}
	}
	return bs
}

// IncomeStatement builds an income statement from the current account balances.
func (l *Ledger) IncomeStatement() IncomeStatement {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.incomeStatement()
}

func (l *Ledger) incomeStatement() IncomeStatement {
	var s IncomeStatement
	for _, name := range l.order {
		a := l.accounts[name]
		line := BalanceLine{Name: a.name, Type: a.typ, Balance: a.balance}
		switch a.typ {
		case Income:
			s.revenue = append(s.revenue, line)
		case Expense:
			s.expenses = append(s.expenses, line)
		}
	}
	return s
}

func sum(lines []BalanceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Balance)
	}
	return total
}
