// Package errs defines the application error taxonomy.
//
// Every ledger-facing operation wraps transport and parsing failures into one
// of these sentinels so callers can branch with errors.Is instead of matching
// message text. Retryable: ErrNetworkUnavailable, ErrSignatureTimeout (by
// re-issuing the whole higher-level operation). Fatal unless the request is
// changed: ErrDoubleSpend, ErrProofInvalid, ErrInsufficientBalance,
// ErrHasActiveSubAccounts.
package errs

import "errors"

var (
	// ErrNotFound: the referenced ledger or sub-account does not exist.
	ErrNotFound = errors.New("ledger not found")

	// ErrAlreadyExists: a ledger for this owner already exists.
	ErrAlreadyExists = errors.New("ledger already exists")

	// ErrInsufficientBalance: the available or sub-account balance does not
	// cover the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrHasActiveSubAccounts: deleteLedger while a sub-account still holds a
	// balance or pending refund.
	ErrHasActiveSubAccounts = errors.New("ledger has active sub-accounts")

	// ErrDoubleSpend: a request commitment was already settled, or a nonce is
	// not strictly increasing for its (user, provider) signer.
	ErrDoubleSpend = errors.New("request already settled")

	// ErrProofInvalid: the proof's public inputs do not match the batch.
	ErrProofInvalid = errors.New("settlement proof invalid")

	// ErrSignatureTimeout: the remote signer did not respond within the wait
	// window. Distinct from on-chain failure; the user may simply be away.
	ErrSignatureTimeout = errors.New("signature request timed out")

	// ErrUserRejectedSignature: the remote signer explicitly declined.
	// Never blindly retried; the caller decides whether to re-prompt.
	ErrUserRejectedSignature = errors.New("signature request rejected by user")

	// ErrAlreadyFulfilled: a second fulfillment for the same operation.
	ErrAlreadyFulfilled = errors.New("signature request already fulfilled")

	// ErrNetworkUnavailable: RPC or HTTP transport failure.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrUnrecoverableKey: the settlement key is gone and no encrypted backup
	// exists on the ledger.
	ErrUnrecoverableKey = errors.New("settlement key unrecoverable")
)
