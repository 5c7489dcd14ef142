package ledger

import "errors"

// Errors returned by the ledger. Callers match them with errors.Is; the
// returned error usually wraps one of these with the offending value.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidLine        = errors.New("invalid journal entry line")
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnbalancedEntry    = errors.New("unbalanced journal entry")
	ErrDuplicateEntry     = errors.New("journal entry already recorded")
	ErrEntryCommitted     = errors.New("journal entry is committed")
)
