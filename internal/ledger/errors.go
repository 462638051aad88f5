package ledger

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to an entity of
	// the expected type.
	ErrNotFound = errors.New("not found")

	// ErrUnbalancedEntries is returned when a transaction's ledger entries
	// do not balance (sum of debits != sum of credits within Epsilon).
	ErrUnbalancedEntries = errors.New("ledger entries do not balance")

	// ErrNoLedgerEntries is returned when a transaction is created without
	// any ledger entries.
	ErrNoLedgerEntries = errors.New("transaction requires at least one ledger entry")
)
