package repository

import "errors"

var (
	// ErrProfileUnavailable is returned when the conditional reservation
	// update matched no row: the profile was taken concurrently or does not
	// exist. The transaction it happened in is rolled back.
	ErrProfileUnavailable = errors.New("profile is not available")

	// ErrAccountInUse is returned when deleting an inventory account that
	// still has at least one assigned profile.
	ErrAccountInUse = errors.New("account has assigned profiles")
)
