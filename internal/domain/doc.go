// Package domain contains the request descriptors and outcomes that the
// wallet client works with.
//
// This package has no dependencies on infrastructure concerns (HTTP, file
// system, logging).
//
// # Entities
//
//   - [Request]: a payload file, an HTTP method and an endpoint suffix
//   - [Outcome]: the result of dispatching one Request
//
// The fixed wallet demo is described by [DefaultSequence]: two wallet
// creations followed by a transfer between them.
package domain
