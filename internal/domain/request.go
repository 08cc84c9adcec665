package domain

import (
	"encoding/hex"
	"fmt"
)

// DefaultBaseURL is the API prefix of the cryptocurrency service on a local node.
const DefaultBaseURL = "http://127.0.0.1:8000/api/services/cryptocurrency/v1/"

// Endpoint suffixes, relative to the base URL.
const (
	WalletsSuffix  = "wallets"
	TransferSuffix = "wallets/transfer"
	walletPrefix   = "wallet/"
)

// Payload file names read from the payload directory.
const (
	CreateWallet1File  = "create-wallet-1.json"
	CreateWallet2File  = "create-wallet-2.json"
	TransferFundsFile  = "transfer-funds.json"
	PublicKeyHexLength = 64
)

// Method is an HTTP method used against the service.
type Method string

const (
	MethodPost Method = "POST"
	MethodGet  Method = "GET"
)

// Request describes one call to the service.
type Request struct {
	// File is the path of the JSON payload, relative to the payload directory.
	// Empty for requests without a body.
	File string

	// Method is the HTTP method to use.
	Method Method

	// Suffix is appended verbatim to the base URL.
	Suffix string
}

// URL joins base and the request suffix. The base is expected to end with "/".
func (r Request) URL(base string) string {
	return base + r.Suffix
}

// String returns "METHOD suffix".
func (r Request) String() string {
	return string(r.Method) + " " + r.Suffix
}

// DefaultSequence returns the wallet demo: create two wallets, then transfer
// funds from the first to the second. Order matters.
func DefaultSequence() []Request {
	return []Request{
		{File: CreateWallet1File, Method: MethodPost, Suffix: WalletsSuffix},
		{File: CreateWallet2File, Method: MethodPost, Suffix: WalletsSuffix},
		{File: TransferFundsFile, Method: MethodPost, Suffix: TransferSuffix},
	}
}

// WalletInfo builds the lookup request for the wallet owned by pubKey.
// pubKey must be a hex-encoded 32-byte public key.
func WalletInfo(pubKey string) (Request, error) {
	if len(pubKey) != PublicKeyHexLength {
		return Request{}, fmt.Errorf("%w: want %d hex chars, got %d", ErrInvalidPublicKey, PublicKeyHexLength, len(pubKey))
	}
	if _, err := hex.DecodeString(pubKey); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return Request{Method: MethodGet, Suffix: walletPrefix + pubKey}, nil
}
