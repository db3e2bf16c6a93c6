package domain

import "errors"

// Common domain errors
var (
	// ErrAuth is returned when the bearer credential is missing or invalid.
	ErrAuth = errors.New("unauthorized")
	// ErrForbidden is returned when a user is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a requested resource is not found or not owned by the caller
	ErrNotFound = errors.New("resource not found")
	// ErrPersistence is returned when the store rejects a write
	ErrPersistence = errors.New("persistence error")
)

// Upstream provider errors
var (
	// ErrUpstreamExchange is returned when the aggregator rejects a public token
	// (expired, already used or malformed).
	ErrUpstreamExchange = errors.New("upstream token exchange failed")
	// ErrUpstreamFetch is returned on transport or auth failures talking to a provider.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrUpstreamTimeout is returned when a provider call exceeds its deadline.
	ErrUpstreamTimeout = errors.New("upstream request timed out")
)

// Sync and billing preconditions
var (
	// ErrNotLinked is returned when syncing an account that has no access credential.
	ErrNotLinked = errors.New("account is not linked to a bank connection")
	// ErrNoCustomer is returned when the billing provider has no customer for the user.
	ErrNoCustomer = errors.New("No Stripe customer found. Please subscribe first.")
	// ErrNoActiveSubscription is returned when the customer has no active subscription.
	ErrNoActiveSubscription = errors.New("No active subscription found. Please subscribe first.")
)
