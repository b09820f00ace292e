// Package provider implements the provider half of the settlement flow:
// request intake with signature and nonce admission, and the periodic settle
// loop that turns the accumulated queue into proved on-chain settlements.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
	"github.com/0gfoundation/0g-compute-settlement/internal/session"
	"github.com/0gfoundation/0g-compute-settlement/internal/settlekey"
)

const (
	queueKeyFmt = "settlement:queue:%s:%s" // provider, service kind
	dlqKeyFmt   = "settlement:dlq:%s:%s"
)

// SignedRequest is one billed request plus its settlement-key signature, as
// queued for settlement.
type SignedRequest struct {
	Kind      ledger.ServiceKind       `json:"kind"`
	Request   commitment.RequestRecord `json:"request"`
	Signature []byte                   `json:"signature"`
}

// SignerRegistry resolves a user's registered settlement public key. The
// chain client serves this in production.
type SignerRegistry interface {
	GetLedger(ctx context.Context, owner common.Address) (*ledger.Ledger, error)
}

// Engine admits requests into the provider's settlement queue.
type Engine struct {
	provider common.Address
	rdb      *redis.Client
	store    *session.Store
	registry SignerRegistry
	log      *zap.Logger
}

func NewEngine(provider common.Address, rdb *redis.Client, store *session.Store, registry SignerRegistry, log *zap.Logger) *Engine {
	return &Engine{provider: provider, rdb: rdb, store: store, registry: registry, log: log}
}

// Accept verifies the request's settlement signature against the user's
// registered key, burns its nonce, and enqueues it. A replayed or
// out-of-order nonce fails ErrDoubleSpend before anything is queued; a
// rejected request must be re-issued with a fresh nonce, never re-sent.
func (e *Engine) Accept(ctx context.Context, sr SignedRequest) error {
	if !sr.Kind.Valid() {
		return fmt.Errorf("unknown service kind %q", sr.Kind)
	}
	if sr.Request.Provider != e.provider {
		return fmt.Errorf("request addressed to %s, serving %s", sr.Request.Provider.Hex(), e.provider.Hex())
	}

	pub, err := e.signerFor(ctx, sr.Request.User)
	if err != nil {
		return err
	}
	ok, err := settlekey.Verify(pub, sr.Request.Hash(), sr.Signature)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("settlement signature does not verify for %s", sr.Request.User.Hex())
	}

	admitted, err := e.store.ReserveNonce(ctx, sr.Request.User, e.provider, sr.Request.Nonce)
	if err != nil {
		return err
	}
	if !admitted {
		return fmt.Errorf("%w: nonce %d already used by %s", errs.ErrDoubleSpend, sr.Request.Nonce, sr.Request.User.Hex())
	}

	raw, err := json.Marshal(sr)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	key := fmt.Sprintf(queueKeyFmt, e.provider.Hex(), sr.Kind)
	if err := e.rdb.RPush(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("enqueue request: %w", err)
	}
	e.log.Info("request accepted",
		zap.String("user", sr.Request.User.Hex()),
		zap.Uint64("nonce", sr.Request.Nonce),
		zap.String("fee", sr.Request.Fee().String()))
	return nil
}

// signerFor reads the user's settlement key from the session cache, falling
// back to the ledger and re-caching.
func (e *Engine) signerFor(ctx context.Context, user common.Address) ([2]*big.Int, error) {
	pub, err := e.store.GetSigner(ctx, user)
	if err == nil {
		return pub, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return pub, err
	}
	l, err := e.registry.GetLedger(ctx, user)
	if err != nil {
		return pub, fmt.Errorf("resolve signer for %s: %w", user.Hex(), err)
	}
	if err := e.store.PutSigner(ctx, user, l.SignerPubKey); err != nil {
		e.log.Warn("signer not cached", zap.Error(err))
	}
	return l.SignerPubKey, nil
}
