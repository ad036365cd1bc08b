package db

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrShiftConflict is returned when an assigning write would give a
	// caregiver two overlapping shifts on the same date
	ErrShiftConflict = errors.New("caregiver already has an overlapping shift")

	// ErrPrimaryConflict is returned when a primary-caregiver transfer names
	// a current holder that no longer matches the stored one
	ErrPrimaryConflict = errors.New("primary caregiver changed since it was read")

	// ErrDuplicateEmail is returned when inserting a caregiver whose email
	// is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)
