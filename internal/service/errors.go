package service

import "errors"

// Service-level errors. Handlers translate these into the HTTP taxonomy;
// anything else coming out of a service is a store failure that already
// rolled back and surfaces as a generic 500.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrPlanNotFound    = errors.New("sales attribute not found")
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrAccountNotFound = errors.New("inventory account not found")
	ErrProfileNotFound = errors.New("inventory profile not found")

	// ErrOutOfStock means no available profile for the requested product, or
	// the requested profile was taken before the reservation committed.
	// Recoverable by the caller; not a system fault.
	ErrOutOfStock = errors.New("no inventory available")

	// ErrInvalidTransition guards the sale state machine, e.g. reactivating a
	// sale that is still active.
	ErrInvalidTransition = errors.New("invalid sale state transition")

	// ErrAccountInUse blocks deleting an account while a profile is assigned.
	ErrAccountInUse = errors.New("account still has assigned profiles")

	// ErrInvalidInput wraps request validation failures; callers attach the
	// specific reason with fmt.Errorf.
	ErrInvalidInput = errors.New("invalid input")
)
