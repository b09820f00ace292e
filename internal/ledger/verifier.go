package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

// SettlementBatch is a provider's settlement submission: the accumulated
// requests, the zk proof, and the proof's public inputs. The proof bytes are
// opaque here; what the verifier owns is the bookkeeping around them.
type SettlementBatch struct {
	Provider     common.Address             `json:"provider"`
	Kind         ServiceKind                `json:"kind"`
	Requests     []commitment.RequestRecord `json:"requests"`
	Proof        []byte                     `json:"proof"`
	PublicInputs []*big.Int                 `json:"public_inputs"`
}

// Public input layout: [0] aggregate fee, [1] request count, [2:] one
// commitment word per request, in request order.
const pubInputHeader = 2

// TotalFee sums reqFee+resFee over the batch.
func (b *SettlementBatch) TotalFee() *big.Int {
	total := new(big.Int)
	for i := range b.Requests {
		total.Add(total, b.Requests[i].Fee())
	}
	return total
}

// SettleFees validates the batch against current ledger state and, on
// success, performs exactly one balance mutation per user crediting the
// provider's aggregate fee. Any failure rejects the whole batch with zero
// mutation:
//
//   - public inputs not matching the re-derived commitments or the fee sum
//     → ErrProofInvalid
//   - a commitment repeated in-batch, already settled, or a nonce not
//     strictly above the sub-account's high-water mark → ErrDoubleSpend
//   - aggregate fee exceeding a sub-account's balance, read at apply time
//     → ErrInsufficientBalance
func (s *State) SettleFees(batch *SettlementBatch) error {
	if len(batch.Requests) == 0 {
		return fmt.Errorf("%w: empty batch", errs.ErrProofInvalid)
	}
	kind := batch.Kind
	if kind == "" {
		kind = ServiceInference
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// (a) fee sum and request count must match the public inputs.
	if len(batch.PublicInputs) != pubInputHeader+len(batch.Requests) {
		return fmt.Errorf("%w: expected %d public inputs, got %d",
			errs.ErrProofInvalid, pubInputHeader+len(batch.Requests), len(batch.PublicInputs))
	}
	if batch.PublicInputs[1].Cmp(big.NewInt(int64(len(batch.Requests)))) != 0 {
		return fmt.Errorf("%w: request count mismatch", errs.ErrProofInvalid)
	}
	totalFee := new(big.Int)
	for i := range batch.Requests {
		totalFee.Add(totalFee, batch.Requests[i].Fee())
	}
	if batch.PublicInputs[0].Cmp(totalFee) != 0 {
		return fmt.Errorf("%w: fee sum %s does not match proof input %s",
			errs.ErrProofInvalid, totalFee, batch.PublicInputs[0])
	}

	// (b) re-derive every commitment and check replay/ordering. All checks
	// complete before any mutation.
	seen := make(map[[32]byte]struct{}, len(batch.Requests))
	highNonce := make(map[common.Address]uint64)
	fees := make(map[common.Address]*big.Int)
	for i := range batch.Requests {
		req := &batch.Requests[i]
		if req.Provider != batch.Provider {
			return fmt.Errorf("%w: request %d addressed to %s", errs.ErrProofInvalid, i, req.Provider.Hex())
		}
		hash := req.Hash()
		if word := new(big.Int).SetBytes(hash[:]); word.Cmp(batch.PublicInputs[pubInputHeader+i]) != 0 {
			return fmt.Errorf("%w: commitment mismatch at request %d", errs.ErrProofInvalid, i)
		}
		if _, dup := seen[hash]; dup {
			return fmt.Errorf("%w: duplicate commitment in batch", errs.ErrDoubleSpend)
		}
		seen[hash] = struct{}{}

		key := pairKey{user: req.User, provider: batch.Provider}
		if _, replayed := s.settled[key][hash]; replayed {
			return fmt.Errorf("%w: commitment already settled for %s", errs.ErrDoubleSpend, req.User.Hex())
		}
		floor, ok := highNonce[req.User]
		if !ok {
			floor = s.settledNonceLocked(req.User, batch.Provider, kind)
		}
		if req.Nonce <= floor {
			return fmt.Errorf("%w: nonce %d not above %d for %s", errs.ErrDoubleSpend, req.Nonce, floor, req.User.Hex())
		}
		highNonce[req.User] = req.Nonce

		if _, ok := fees[req.User]; !ok {
			fees[req.User] = new(big.Int)
		}
		fees[req.User].Add(fees[req.User], req.Fee())
	}

	// (c) balance sufficiency against the authoritative balance right now,
	// never a snapshot from proof time.
	for user, fee := range fees {
		sub, err := s.spendableLocked(user, batch.Provider, kind)
		if err != nil {
			return err
		}
		if sub.Balance.Cmp(fee) < 0 {
			return fmt.Errorf("%w: %s owes %s, sub-account holds %s",
				errs.ErrInsufficientBalance, user.Hex(), fee, sub.Balance)
		}
	}

	// Apply. Checks all passed; this cannot partially fail.
	for user, fee := range fees {
		l := s.ledgers[user]
		sub := l.subAccounts(kind)[batch.Provider]
		sub.Balance.Sub(sub.Balance, fee)
		l.TotalBalance.Sub(l.TotalBalance, fee)
		sub.Nonce = highNonce[user]

		key := pairKey{user: user, provider: batch.Provider}
		if s.settled[key] == nil {
			s.settled[key] = make(map[[32]byte]struct{})
		}
	}
	for i := range batch.Requests {
		key := pairKey{user: batch.Requests[i].User, provider: batch.Provider}
		s.settled[key][batch.Requests[i].Hash()] = struct{}{}
	}
	return nil
}

func (s *State) settledNonceLocked(user, provider common.Address, kind ServiceKind) uint64 {
	l, ok := s.ledgers[user]
	if !ok {
		return 0
	}
	sub, ok := l.subAccounts(kind)[provider]
	if !ok {
		return 0
	}
	return sub.Nonce
}

func (s *State) spendableLocked(user, provider common.Address, kind ServiceKind) (*SubAccount, error) {
	l, ok := s.ledgers[user]
	if !ok {
		return nil, fmt.Errorf("%w: no ledger for %s", errs.ErrNotFound, user.Hex())
	}
	sub, ok := l.subAccounts(kind)[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no %s sub-account for %s", errs.ErrNotFound, kind, user.Hex())
	}
	return sub, nil
}

// BuildPublicInputs derives the public input vector the prover is expected to
// expose for a batch. The settler uses it to cross-check prover output before
// submission.
func BuildPublicInputs(requests []commitment.RequestRecord) []*big.Int {
	out := make([]*big.Int, 0, pubInputHeader+len(requests))
	total := new(big.Int)
	for i := range requests {
		total.Add(total, requests[i].Fee())
	}
	out = append(out, total, big.NewInt(int64(len(requests))))
	for i := range requests {
		hash := requests[i].Hash()
		out = append(out, new(big.Int).SetBytes(hash[:]))
	}
	return out
}
