// Package broker orchestrates the user side of the settlement subsystem:
// ledger lifecycle against the contract, settlement key custody, and request
// signing. It never talks to the chain directly; everything goes through the
// LedgerContract interface so the same orchestration runs against the real
// contract or in-memory state.
package broker

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
	"github.com/0gfoundation/0g-compute-settlement/internal/session"
	"github.com/0gfoundation/0g-compute-settlement/internal/settlekey"
)

// LedgerContract is the ledger-of-record behind the broker: the chain client
// in production, in-memory state in tests.
type LedgerContract interface {
	AddLedger(ctx context.Context, owner common.Address, signer [2]*big.Int, amount *big.Int, encryptedPrivKey string) error
	DepositFund(ctx context.Context, owner common.Address, amount *big.Int) error
	TransferFund(ctx context.Context, owner, provider common.Address, kind ledger.ServiceKind, amount *big.Int) error
	RetrieveFund(ctx context.Context, owner common.Address, providers []common.Address, kind ledger.ServiceKind) error
	ProcessRefunds(ctx context.Context, owner common.Address) error
	DeleteLedger(ctx context.Context, owner common.Address) error
	GetLedger(ctx context.Context, owner common.Address) (*ledger.Ledger, error)
	ListLedgers(ctx context.Context) ([]*ledger.Ledger, error)
	GetAccount(ctx context.Context, owner, provider common.Address, kind ledger.ServiceKind) (*ledger.SubAccount, error)
}

// Broker drives one owner's ledger.
type Broker struct {
	owner    common.Address
	contract LedgerContract
	wallet   settlekey.WalletSign
	keys     *session.Store
	log      *zap.Logger
}

func New(owner common.Address, contract LedgerContract, wallet settlekey.WalletSign, keys *session.Store, log *zap.Logger) *Broker {
	return &Broker{owner: owner, contract: contract, wallet: wallet, keys: keys, log: log}
}

// Owner returns the wallet address this broker acts for.
func (b *Broker) Owner() common.Address { return b.owner }

// AddLedger creates the owner's ledger: mint a settlement keypair, seal it
// under a wallet signature, then register key and funds in one transaction.
// An encryption failure aborts before anything reaches the contract, so no
// ledger ever exists without its key backup.
func (b *Broker) AddLedger(ctx context.Context, amount *big.Int) error {
	kp, err := settlekey.GenerateKeyPair()
	if err != nil {
		return err
	}
	encrypted, err := settlekey.Encrypt(b.wallet, kp.Bytes())
	if err != nil {
		return fmt.Errorf("add ledger: %w", err)
	}

	if err := b.contract.AddLedger(ctx, b.owner, kp.PublicKey(), amount, encrypted); err != nil {
		return err
	}
	b.log.Info("ledger created",
		zap.String("owner", b.owner.Hex()),
		zap.String("amount", FormatAmount(amount)))

	if err := b.keys.PutKey(ctx, b.owner, kp.Bytes()); err != nil {
		b.log.Warn("settlement key not cached", zap.Error(err))
	}
	return nil
}

// DepositFund tops up the available balance.
func (b *Broker) DepositFund(ctx context.Context, amount *big.Int) error {
	if err := b.contract.DepositFund(ctx, b.owner, amount); err != nil {
		return err
	}
	b.log.Info("funds deposited",
		zap.String("owner", b.owner.Hex()),
		zap.String("amount", FormatAmount(amount)))
	return nil
}

// TransferFund escrows funds with a provider for one service.
func (b *Broker) TransferFund(ctx context.Context, provider common.Address, kind ledger.ServiceKind, amount *big.Int) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown service kind %q", kind)
	}
	if err := b.contract.TransferFund(ctx, b.owner, provider, kind, amount); err != nil {
		return err
	}
	b.log.Info("funds escrowed",
		zap.String("provider", provider.Hex()),
		zap.String("service", string(kind)),
		zap.String("amount", FormatAmount(amount)))
	return nil
}

// RetrieveFund starts the refund clock on each named sub-account's surplus.
// Having no surplus anywhere is a successful no-op.
func (b *Broker) RetrieveFund(ctx context.Context, providers []common.Address, kind ledger.ServiceKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown service kind %q", kind)
	}
	return b.contract.RetrieveFund(ctx, b.owner, providers, kind)
}

// ProcessRefunds releases refunds whose lock period has elapsed.
func (b *Broker) ProcessRefunds(ctx context.Context) error {
	return b.contract.ProcessRefunds(ctx, b.owner)
}

// DeleteLedger removes the ledger once every sub-account is drained.
func (b *Broker) DeleteLedger(ctx context.Context) error {
	if err := b.contract.DeleteLedger(ctx, b.owner); err != nil {
		return err
	}
	if err := b.keys.DropKey(ctx, b.owner); err != nil {
		b.log.Warn("settlement key not evicted", zap.Error(err))
	}
	b.log.Info("ledger deleted", zap.String("owner", b.owner.Hex()))
	return nil
}

// GetLedger reads the owner's ledger.
func (b *Broker) GetLedger(ctx context.Context) (*ledger.Ledger, error) {
	return b.contract.GetLedger(ctx, b.owner)
}

// ListLedgers reads every ledger.
func (b *Broker) ListLedgers(ctx context.Context) ([]*ledger.Ledger, error) {
	return b.contract.ListLedgers(ctx)
}

// GetLedgerWithDetail returns the ledger plus its sub-accounts for one
// service, ordered by provider. A service the owner never funded yields an
// empty list, not an error.
func (b *Broker) GetLedgerWithDetail(ctx context.Context, kind ledger.ServiceKind) (*ledger.Ledger, []*ledger.SubAccount, error) {
	l, err := b.contract.GetLedger(ctx, b.owner)
	if err != nil {
		return nil, nil, err
	}
	subs := l.Inference
	if kind == ledger.ServiceFineTuning {
		subs = l.FineTuning
	}
	out := make([]*ledger.SubAccount, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Provider.Cmp(out[j].Provider) < 0
	})
	return l, out, nil
}

// SettlementKey returns the owner's settlement keypair: from the session
// cache when warm, otherwise recovered from the on-chain encrypted backup via
// a fresh wallet signature. A ledger without a backup means the key is gone
// for good.
func (b *Broker) SettlementKey(ctx context.Context) (*settlekey.KeyPair, error) {
	if raw, err := b.keys.GetKey(ctx, b.owner); err == nil {
		return settlekey.FromBytes(raw)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	l, err := b.contract.GetLedger(ctx, b.owner)
	if err != nil {
		return nil, err
	}
	if l.EncryptedPrivKey == "" {
		return nil, fmt.Errorf("%w: ledger has no key backup", errs.ErrUnrecoverableKey)
	}
	raw, err := settlekey.Decrypt(b.wallet, l.EncryptedPrivKey)
	if err != nil {
		return nil, err
	}
	kp, err := settlekey.FromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnrecoverableKey, err)
	}
	if err := b.keys.PutKey(ctx, b.owner, raw); err != nil {
		b.log.Warn("settlement key not cached", zap.Error(err))
	}
	return kp, nil
}

// SignRequest signs one billed request's commitment with the settlement key.
func (b *Broker) SignRequest(ctx context.Context, rec commitment.RequestRecord) ([]byte, error) {
	if rec.User != b.owner {
		return nil, fmt.Errorf("request user %s is not the broker owner", rec.User.Hex())
	}
	kp, err := b.SettlementKey(ctx)
	if err != nil {
		return nil, err
	}
	return kp.Sign(rec.Hash())
}
