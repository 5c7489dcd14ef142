package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// lineSep separates an entry ID from a line number in a line ID.
const lineSep = "#"

// New returns a random (v4) UUID string used for journal entry and order IDs.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// FormatLineID returns a line ID like "<entryID>#1" (lines are numbered from 1).
func FormatLineID(entryID string, line int) string {
	return entryID + lineSep + strconv.Itoa(line)
}

// ParseLineID splits "<entryID>#N" into the entry ID and line number.
func ParseLineID(lineID string) (entryID string, line int, err error) {
	i := strings.LastIndex(lineID, lineSep)
	if i <= 0 {
		return "", 0, fmt.Errorf("invalid line ID format: %q", lineID)
	}
	line, err = strconv.Atoi(lineID[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid line number in line ID %q: %w", lineID, err)
	}
	if line < 1 {
		return "", 0, fmt.Errorf("invalid line number in line ID %q: must be >= 1", lineID)
	}
	return lineID[:i], line, nil
}

// EntryGroup strips the line suffix from a line ID.
// "abc#2" -> "abc"
func EntryGroup(lineID string) string {
	if i := strings.LastIndex(lineID, lineSep); i >= 0 {
		return lineID[:i]
	}
	return lineID
}
