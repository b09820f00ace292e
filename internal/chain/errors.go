package chain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

// revertSelectors maps 4-byte custom error selectors to the application
// taxonomy. Selectors are keccak256 of the Solidity error signature.
var revertSelectors = map[[4]byte]error{}

func init() {
	for sig, err := range map[string]error{
		"LedgerNotExists(address)":              errs.ErrNotFound,
		"LedgerExists(address)":                 errs.ErrAlreadyExists,
		"InsufficientBalance(address,address)":  errs.ErrInsufficientBalance,
		"ActiveSubAccounts(address)":            errs.ErrHasActiveSubAccounts,
		"InvalidProof()":                        errs.ErrProofInvalid,
		"NonceUsed(address,uint256)":            errs.ErrDoubleSpend,
	} {
		var sel [4]byte
		copy(sel[:], crypto.Keccak256([]byte(sig))[:4])
		revertSelectors[sel] = err
	}
}

// dataError is the subset of go-ethereum's rpc.DataError we need to pull
// revert data out of a JSON-RPC error.
type dataError interface {
	Error() string
	ErrorData() interface{}
}

// wrapRPCError classifies an ethclient failure. Custom contract errors map to
// their sentinel via the revert selector; anything else is treated as a
// transport fault and wrapped ErrNetworkUnavailable so callers retry instead
// of giving up.
func wrapRPCError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de dataError
	if errors.As(err, &de) {
		if mapped, ok := decodeRevertData(de.ErrorData()); ok {
			return fmt.Errorf("%s: %w", op, mapped)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, errs.ErrNetworkUnavailable, err)
}

func decodeRevertData(data interface{}) (error, bool) {
	s, ok := data.(string)
	if !ok {
		return nil, false
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(raw) < 4 {
		return nil, false
	}
	var sel [4]byte
	copy(sel[:], raw[:4])
	mapped, ok := revertSelectors[sel]
	return mapped, ok
}
