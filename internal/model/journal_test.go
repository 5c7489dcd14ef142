package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryRecordTotals(t *testing.T) {
	tests := []struct {
		name        string
		lines       []LineRecord
		wantDebits  string
		wantCredits string
	}{
		{
			name: "sale pair",
			lines: []LineRecord{
				{AccountName: "Cash", Amount: "50.00", Side: SideDebit},
				{AccountName: "Sales Revenue", Amount: "50.00", Side: SideCredit},
			},
			wantDebits:  "50",
			wantCredits: "50",
		},
		{
			name: "unparsable amount counts as zero",
			lines: []LineRecord{
				{AccountName: "Cash", Amount: "abc", Side: SideDebit},
				{AccountName: "Sales Revenue", Amount: "1.5", Side: SideCredit},
			},
			wantDebits:  "0",
			wantCredits: "1.5",
		},
		{name: "empty", wantDebits: "0", wantCredits: "0"},
	}
	for _, tt := range tests {
		d, c := EntryRecord{Lines: tt.lines}.Totals()
		assert.Equal(t, tt.wantDebits, d.String(), tt.name)
		assert.Equal(t, tt.wantCredits, c.String(), tt.name)
	}
}
