// Package ledger implements the ledger-of-record accounting model: per-owner
// aggregate balances, provider sub-accounts with escrow/refund/lock-time
// semantics, and the settlement verifier that converts a batch of signed
// requests into one balance transfer.
package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ServiceKind partitions sub-accounts by the service they fund.
type ServiceKind string

const (
	ServiceInference  ServiceKind = "inference"
	ServiceFineTuning ServiceKind = "fine-tuning"
)

// Valid reports whether k is a known service kind.
func (k ServiceKind) Valid() bool {
	return k == ServiceInference || k == ServiceFineTuning
}

// Refund is one retrieveFund earmark. Processed flips false→true at most
// once, after the lock period elapses.
type Refund struct {
	Index     int      `json:"index"`
	Amount    *big.Int `json:"amount"`
	CreatedAt int64    `json:"created_at"`
	Processed bool     `json:"processed"`
}

// SubAccount is a provider-scoped balance partition within a ledger.
// Balance (spendable by settlement) and PendingRefund (earmarked for
// withdrawal, locked) are disjoint; their sum is what the owner escrowed
// with this provider.
type SubAccount struct {
	Provider      common.Address `json:"provider"`
	Balance       *big.Int       `json:"balance"`
	PendingRefund *big.Int       `json:"pending_refund"`
	Signer        [2]*big.Int    `json:"signer"`
	Nonce         uint64         `json:"nonce"` // highest settled request nonce
	Refunds       []Refund       `json:"refunds"`
}

// Ledger is one owner's account: aggregate balances, the registered
// settlement signer, and per-service sub-account sets.
//
// Invariant: AvailableBalance <= TotalBalance and
// TotalBalance == AvailableBalance + Σ(sub.Balance + sub.PendingRefund)
// over both service kinds, at all times.
type Ledger struct {
	Owner            common.Address                 `json:"owner"`
	TotalBalance     *big.Int                       `json:"total_balance"`
	AvailableBalance *big.Int                       `json:"available_balance"`
	SignerPubKey     [2]*big.Int                    `json:"signer_pub_key"`
	EncryptedPrivKey string                         `json:"encrypted_priv_key"`
	Inference        map[common.Address]*SubAccount `json:"inference"`
	FineTuning       map[common.Address]*SubAccount `json:"fine_tuning"`
}

func (l *Ledger) subAccounts(kind ServiceKind) map[common.Address]*SubAccount {
	if kind == ServiceFineTuning {
		return l.FineTuning
	}
	return l.Inference
}

// clone returns a deep copy so callers never alias live state.
func (l *Ledger) clone() *Ledger {
	out := &Ledger{
		Owner:            l.Owner,
		TotalBalance:     new(big.Int).Set(l.TotalBalance),
		AvailableBalance: new(big.Int).Set(l.AvailableBalance),
		SignerPubKey:     clonePub(l.SignerPubKey),
		EncryptedPrivKey: l.EncryptedPrivKey,
		Inference:        make(map[common.Address]*SubAccount, len(l.Inference)),
		FineTuning:       make(map[common.Address]*SubAccount, len(l.FineTuning)),
	}
	for addr, sub := range l.Inference {
		out.Inference[addr] = sub.clone()
	}
	for addr, sub := range l.FineTuning {
		out.FineTuning[addr] = sub.clone()
	}
	return out
}

func (s *SubAccount) clone() *SubAccount {
	out := &SubAccount{
		Provider:      s.Provider,
		Balance:       new(big.Int).Set(s.Balance),
		PendingRefund: new(big.Int).Set(s.PendingRefund),
		Signer:        clonePub(s.Signer),
		Nonce:         s.Nonce,
		Refunds:       make([]Refund, len(s.Refunds)),
	}
	for i, r := range s.Refunds {
		out.Refunds[i] = Refund{Index: r.Index, Amount: new(big.Int).Set(r.Amount), CreatedAt: r.CreatedAt, Processed: r.Processed}
	}
	return out
}

func clonePub(pk [2]*big.Int) [2]*big.Int {
	var out [2]*big.Int
	for i, v := range pk {
		if v != nil {
			out[i] = new(big.Int).Set(v)
		} else {
			out[i] = new(big.Int)
		}
	}
	return out
}
