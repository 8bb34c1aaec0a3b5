package domain

import "errors"

var (
	// ErrNotFound indicates no stock level exists for the product.
	ErrNotFound = errors.New("stock level not found")
	// ErrAlreadyExists indicates INITIAL_STOCK was applied to a product
	// that already has a stock level.
	ErrAlreadyExists = errors.New("stock level already exists")
	// ErrInvalidMagnitude indicates a negative adjustment magnitude.
	ErrInvalidMagnitude = errors.New("adjustment magnitude must be non-negative")
	// ErrUnknownKind indicates an unrecognized adjustment kind.
	ErrUnknownKind = errors.New("unknown adjustment kind")
	// ErrConflict indicates the optimistic concurrency retry budget was
	// exhausted by concurrent writers on the same product.
	ErrConflict = errors.New("adjustment conflict: retries exhausted")
	// ErrReconcileRequired indicates the ledger failed replay verification
	// for the product; writes are halted pending manual reconciliation.
	ErrReconcileRequired = errors.New("ledger inconsistent: product requires reconciliation")
)
