package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/id"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestNewLineValidation(t *testing.T) {
	cash := mustAccount(t, "Cash", Asset, "0")

	tests := []struct {
		name    string
		account *Account
		amount  string
		side    Side
	}{
		{"nil account", nil, "1", Debit},
		{"zero amount", cash, "0", Debit},
		{"negative amount", cash, "-5", Credit},
		{"bad side", cash, "1", Side("Sideways")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLine(tt.account, d(tt.amount), tt.side)
			assert.ErrorIs(t, err, ErrInvalidLine)
		})
	}
}

func TestJournalEntryBalance(t *testing.T) {
	cash := mustAccount(t, "Cash", Asset, "0")
	sales := mustAccount(t, "Sales Revenue", Income, "0")

	e := NewJournalEntry(day, "sale")
	assert.True(t, id.Valid(e.ID()))
	assert.True(t, e.IsBalanced(), "an empty entry has equal totals")

	require.NoError(t, e.AddLine(cash, d("500"), Debit))
	assert.False(t, e.IsBalanced())

	require.NoError(t, e.AddLine(sales, d("499"), Credit))
	assert.False(t, e.IsBalanced())

	require.NoError(t, e.AddLine(sales, d("1"), Credit))
	assert.True(t, e.IsBalanced())

	debits, credits := e.Totals()
	assert.Equal(t, "500", debits.String())
	assert.Equal(t, "500", credits.String())

	// Building the entry never touches balances.
	assert.True(t, cash.Balance().IsZero())
	assert.True(t, sales.Balance().IsZero())
}

func TestJournalEntryLinesIsCopy(t *testing.T) {
	cash := mustAccount(t, "Cash", Asset, "0")
	e := NewJournalEntry(day, "x")
	require.NoError(t, e.AddLine(cash, d("1"), Debit))

	lines := e.Lines()
	lines[0] = Line{}
	assert.Equal(t, cash, e.Lines()[0].Account())
}

func TestJournalEntryRecord(t *testing.T) {
	cash := mustAccount(t, "Cash", Asset, "0")
	sales := mustAccount(t, "Sales Revenue", Income, "0")

	e := NewJournalEntry(day, "sale")
	require.NoError(t, e.AddLine(cash, d("19.99"), Debit))
	require.NoError(t, e.AddLine(sales, d("19.99"), Credit))

	rec := e.Record()
	assert.Equal(t, e.ID(), rec.ID)
	assert.Equal(t, day, rec.Date)
	assert.Equal(t, "sale", rec.Description)
	assert.True(t, rec.Balanced)
	require.Len(t, rec.Lines, 2)
	assert.Equal(t, "Cash", rec.Lines[0].AccountName)
	assert.Equal(t, "19.99", rec.Lines[0].Amount)
	assert.Equal(t, "Debit", rec.Lines[0].Side)
	assert.Equal(t, "Credit", rec.Lines[1].Side)
}
