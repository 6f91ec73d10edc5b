package repository

import "errors"

// Sentinel errors returned by the repositories so services can tell a missing
// document apart from a store failure.
var (
	ErrInvalidID       = errors.New("invalid object ID")
	ErrRiderNotFound   = errors.New("rider not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrCheckNotFound   = errors.New("monthly check not found")
	ErrUserNotFound    = errors.New("user not found")
)
