package runlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/orders"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Source:    "orders-0115.json",
		OrderID:   "9b2f6c1e-8a51-4c55-9c43-0b0d5d1f7a10",
		Status:    orders.StatusSuccess,
		State:     orders.Completed.String(),
		Message:   "Purchase order accepted.",
		EntryIDs:  []string{"e1", "e2"},
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "orders-0115.json", entries[0].Source)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Source = "orders-0116.csv"
	e2.Status = orders.StatusError
	e2.EntryIDs = nil
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "orders-0115.json", entries[0].Source)
	assert.Equal(t, "orders-0116.csv", entries[1].Source)
	assert.Nil(t, entries[1].EntryIDs)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "run-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 7 fields")
}

func TestUnmarshalEntry_BadTimestamp(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colTime] = "yesterday"
	_, err := UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing timestamp")
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-01-15T10:30:00Z", row[colTime])
	assert.Equal(t, "e1;e2", row[colEntryIDs])
}

func TestFromResult(t *testing.T) {
	ok := FromResult(testTime, "a.json", orders.Result{
		Status:   orders.StatusSuccess,
		OrderID:  "o1",
		Total:    decimal.NewFromInt(10),
		EntryIDs: []string{"x"},
		State:    orders.Completed,
	})
	assert.Equal(t, "Completed", ok.State)
	assert.Equal(t, []string{"x"}, ok.EntryIDs)

	failed := FromResult(testTime, "b.json", orders.Result{
		Status:   orders.StatusError,
		Message:  "out of stock",
		State:    orders.Error,
		FailedIn: orders.StockChecking,
		Err:      errors.New("out of stock"),
	})
	assert.Equal(t, "StockChecking", failed.State)
	assert.Equal(t, orders.StatusError, failed.Status)
	assert.Empty(t, failed.OrderID)
}

func TestAppend_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
