package domain

import "errors"

// Errors returned by the dispatcher. Check with errors.Is.
var (
	// ErrPayloadNotFound is returned when a request's payload file does not exist.
	ErrPayloadNotFound = errors.New("walletcli: payload file not found")

	// ErrPayloadRead is returned when a payload file exists but cannot be read.
	ErrPayloadRead = errors.New("walletcli: payload file unreadable")

	// ErrTransport is returned when no HTTP response was received
	// (connection refused, timeout, DNS failure).
	ErrTransport = errors.New("walletcli: transport error")

	// ErrStatus is returned when the service answers with a non-2xx status.
	ErrStatus = errors.New("walletcli: unexpected status")

	// ErrInvalidPublicKey is returned for malformed wallet public keys.
	ErrInvalidPublicKey = errors.New("walletcli: invalid public key")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("walletcli: invalid configuration")
)
