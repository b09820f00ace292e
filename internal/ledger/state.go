package ledger

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

// DefaultLockTime is the refund lock period.
const DefaultLockTime = 86_400 * time.Second

// State is an in-process ledger-of-record. The external chain serializes all
// writes; here a single mutex plays that role, so every operation is one
// atomic transaction against authoritative state.
type State struct {
	mu       sync.Mutex
	lockTime time.Duration
	now      func() time.Time
	ledgers  map[common.Address]*Ledger
	settled  map[pairKey]map[[32]byte]struct{}
}

type pairKey struct {
	user, provider common.Address
}

// Option configures a State.
type Option func(*State)

// WithLockTime overrides the refund lock period.
func WithLockTime(d time.Duration) Option {
	return func(s *State) { s.lockTime = d }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

func NewState(opts ...Option) *State {
	s := &State{
		lockTime: DefaultLockTime,
		now:      time.Now,
		ledgers:  make(map[common.Address]*Ledger),
		settled:  make(map[pairKey]map[[32]byte]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LockTime returns the configured refund lock period.
func (s *State) LockTime() time.Duration { return s.lockTime }

// AddLedger creates the owner's ledger with total == available == initial.
// Concurrent calls for the same owner serialize here: first wins, the rest
// fail AlreadyExists.
func (s *State) AddLedger(owner common.Address, initial *big.Int, signer [2]*big.Int, encryptedPrivKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ledgers[owner]; exists {
		return errs.ErrAlreadyExists
	}
	s.ledgers[owner] = &Ledger{
		Owner:            owner,
		TotalBalance:     new(big.Int).Set(initial),
		AvailableBalance: new(big.Int).Set(initial),
		SignerPubKey:     clonePub(signer),
		EncryptedPrivKey: encryptedPrivKey,
		Inference:        make(map[common.Address]*SubAccount),
		FineTuning:       make(map[common.Address]*SubAccount),
	}
	return nil
}

// DepositFund adds to both total and available balance.
func (s *State) DepositFund(owner common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return errs.ErrNotFound
	}
	l.TotalBalance.Add(l.TotalBalance, amount)
	l.AvailableBalance.Add(l.AvailableBalance, amount)
	return nil
}

// TransferFund moves amount from the available balance into the provider's
// sub-account, creating the sub-account on first use. Total is unchanged.
func (s *State) TransferFund(owner, provider common.Address, kind ServiceKind, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return errs.ErrNotFound
	}
	if l.AvailableBalance.Cmp(amount) < 0 {
		return errs.ErrInsufficientBalance
	}
	subs := l.subAccounts(kind)
	sub, ok := subs[provider]
	if !ok {
		sub = &SubAccount{
			Provider:      provider,
			Balance:       new(big.Int),
			PendingRefund: new(big.Int),
			Signer:        clonePub(l.SignerPubKey),
		}
		subs[provider] = sub
	}
	l.AvailableBalance.Sub(l.AvailableBalance, amount)
	sub.Balance.Add(sub.Balance, amount)
	return nil
}

// RetrieveFund earmarks each named sub-account's surplus (balance minus what
// is already pending) for refund, starting the lock clock. Providers with no
// surplus are skipped; having nothing to retrieve anywhere is a no-op, not an
// error.
func (s *State) RetrieveFund(owner common.Address, providers []common.Address, kind ServiceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return errs.ErrNotFound
	}
	now := s.now().Unix()
	subs := l.subAccounts(kind)
	for _, provider := range providers {
		sub, ok := subs[provider]
		if !ok {
			continue
		}
		surplus := new(big.Int).Sub(sub.Balance, sub.PendingRefund)
		if surplus.Sign() <= 0 {
			continue
		}
		sub.Balance.Sub(sub.Balance, surplus)
		sub.PendingRefund.Add(sub.PendingRefund, surplus)
		sub.Refunds = append(sub.Refunds, Refund{
			Index:     len(sub.Refunds),
			Amount:    surplus,
			CreatedAt: now,
		})
	}
	return nil
}

// ProcessRefunds releases every refund whose lock period has elapsed back to
// the available balance. Each refund is processed at most once.
func (s *State) ProcessRefunds(owner common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return errs.ErrNotFound
	}
	unlockBefore := s.now().Add(-s.lockTime).Unix()
	for _, subs := range []map[common.Address]*SubAccount{l.Inference, l.FineTuning} {
		for _, sub := range subs {
			for i := range sub.Refunds {
				r := &sub.Refunds[i]
				if r.Processed || r.CreatedAt > unlockBefore {
					continue
				}
				r.Processed = true
				sub.PendingRefund.Sub(sub.PendingRefund, r.Amount)
				l.AvailableBalance.Add(l.AvailableBalance, r.Amount)
			}
		}
	}
	return nil
}

// DeleteLedger removes the ledger. Every sub-account balance and pending
// refund must already be zero.
func (s *State) DeleteLedger(owner common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return errs.ErrNotFound
	}
	for _, subs := range []map[common.Address]*SubAccount{l.Inference, l.FineTuning} {
		for _, sub := range subs {
			if sub.Balance.Sign() != 0 || sub.PendingRefund.Sign() != 0 {
				return errs.ErrHasActiveSubAccounts
			}
		}
	}
	delete(s.ledgers, owner)
	return nil
}

// GetLedger returns a deep copy of the owner's ledger.
func (s *State) GetLedger(owner common.Address) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return l.clone(), nil
}

// ListLedgers returns deep copies of all ledgers, ordered by owner address.
func (s *State) ListLedgers() ([]*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Ledger, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		out = append(out, l.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Owner.Cmp(out[j].Owner) < 0
	})
	return out, nil
}

// GetAccount returns the (owner, provider) sub-account view for one service.
func (s *State) GetAccount(owner, provider common.Address, kind ServiceKind) (*SubAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return nil, errs.ErrNotFound
	}
	sub, ok := l.subAccounts(kind)[provider]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return sub.clone(), nil
}

// checkInvariants verifies the conservation invariant for one ledger. Used by
// tests; callers hold no lock (it takes its own).
func (s *State) checkInvariants(owner common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[owner]
	if !ok {
		return false
	}
	sum := new(big.Int).Set(l.AvailableBalance)
	for _, subs := range []map[common.Address]*SubAccount{l.Inference, l.FineTuning} {
		for _, sub := range subs {
			sum.Add(sum, sub.Balance)
			sum.Add(sum, sub.PendingRefund)
		}
	}
	return l.AvailableBalance.Cmp(l.TotalBalance) <= 0 && sum.Cmp(l.TotalBalance) == 0
}
