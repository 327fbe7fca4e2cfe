package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrClientClosed is returned by every operation issued after Close.
	ErrClientClosed = errors.New("client is closed")

	// ErrAccountNotFound is returned when the node has no account at the requested address.
	ErrAccountNotFound = errors.New("account not found")
)

// InvalidAddressError is returned when an account or recipient identifier is not a valid
// base58-encoded public key. No network call is made in that case.
type InvalidAddressError struct {
	Address string
	Err     error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %v", e.Address, e.Err)
}

func (e *InvalidAddressError) Unwrap() error { return e.Err }

// NodeError is returned when the remote node rejects, times out or otherwise fails a call.
type NodeError struct {
	Op  string
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: node error: %v", e.Op, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// SigningError is returned when the supplied keypair cannot sign the transaction.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign transaction: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// SerializationError is returned when an instruction payload cannot be encoded.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to encode payload: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
