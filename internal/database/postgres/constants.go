package postgres

// PostgreSQL error codes
const (
	pgCheckViolation = "23514"
)

// Constraint names generated by the initial migration
const (
	constraintBalance = "users_balance_check"
)

// Default ledger page size when callers pass a non-positive limit
const defaultTransactionLimit = 1000
