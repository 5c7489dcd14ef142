// Package render prints statements, accounts and order results as plain
// text tables.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/orders"
)

// Amount formats d in currency, e.g. "$1,200.00". Unknown currency codes fall
// back to "1200.00 XYZ".
func Amount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// Printer writes reports in one currency.
type Printer struct {
	w        io.Writer
	currency string
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, currency string) *Printer {
	return &Printer{w: w, currency: currency}
}

func (p *Printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.w, 0, 4, 2, ' ', tabwriter.AlignRight)
}

func (p *Printer) section(tw *tabwriter.Writer, title string, lines []ledger.BalanceLine, total decimal.Decimal) {
	fmt.Fprintf(tw, "%s\t\t\n", title)
	for _, l := range lines {
		fmt.Fprintf(tw, "  %s\t%s\t\n", l.Name, Amount(l.Balance, p.currency))
	}
	fmt.Fprintf(tw, "Total %s\t%s\t\n", title, Amount(total, p.currency))
	fmt.Fprintf(tw, "\t\t\n")
}

// BalanceSheet prints assets, liabilities and equity. Unclosed net income is
// shown as its own line so the totals reconcile.
func (p *Printer) BalanceSheet(bs ledger.BalanceSheet) error {
	tw := p.table()
	fmt.Fprintf(tw, "BALANCE SHEET\t\t\n\t\t\n")
	p.section(tw, "Assets", bs.Assets(), bs.TotalAssets())
	p.section(tw, "Liabilities", bs.Liabilities(), bs.TotalLiabilities())

	equity := bs.Equity()
	total := bs.TotalEquity()
	if !bs.NetIncome().IsZero() {
		equity = append(equity, ledger.BalanceLine{Name: "Net Income (unclosed)", Type: ledger.Equity, Balance: bs.NetIncome()})
		total = total.Add(bs.NetIncome())
	}
	p.section(tw, "Equity", equity, total)

	fmt.Fprintf(tw, "Liabilities + Equity\t%s\t\n", Amount(bs.TotalLiabilities().Add(total), p.currency))
	if !bs.IsBalanced() {
		fmt.Fprintf(tw, "OUT OF BALANCE BY\t%s\t\n", Amount(bs.Difference(), p.currency))
	}
	return tw.Flush()
}

// IncomeStatement prints revenue, expenses and net income.
func (p *Printer) IncomeStatement(is ledger.IncomeStatement) error {
	tw := p.table()
	fmt.Fprintf(tw, "INCOME STATEMENT\t\t\n\t\t\n")
	p.section(tw, "Revenue", is.Revenue(), is.TotalRevenue())
	p.section(tw, "Expenses", is.Expenses(), is.TotalExpenses())

	label := "Net Income"
	if is.NetIncome().IsNegative() {
		label = "Net Loss"
	}
	fmt.Fprintf(tw, "%s\t%s\t\n", label, Amount(is.NetIncome(), p.currency))
	return tw.Flush()
}

// Accounts prints the chart with current balances.
func (p *Printer) Accounts(accounts []*ledger.Account) error {
	tw := p.table()
	fmt.Fprintf(tw, "ACCOUNT\tTYPE\tBALANCE\t\n")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", a.Name(), a.Type(), Amount(a.Balance(), p.currency))
	}
	return tw.Flush()
}

// Result prints one order outcome on a single line.
func (p *Printer) Result(source string, r orders.Result) error {
	var err error
	if r.OK() {
		_, err = fmt.Fprintf(p.w, "%s: accepted order %s total %s cogs %s\n",
			source, r.OrderID, Amount(r.Total, p.currency), Amount(r.COGS, p.currency))
	} else {
		_, err = fmt.Fprintf(p.w, "%s: rejected (%s): %s\n", source, r.FailedIn, r.Message)
	}
	return err
}
