package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/config"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
	"github.com/0gfoundation/0g-compute-settlement/internal/prover"
)

// Settler submits a proved batch. The chain client serves this in
// production; tests use the in-memory verifier.
type Settler interface {
	SettleFees(ctx context.Context, batch *ledger.SettlementBatch) error
}

// Run is the settle loop for one service queue: BLPOP → batch → prover →
// settleFees → typed status handling. It returns when ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, rdb *redis.Client, prv *prover.Client, onchain Settler, kind ledger.ServiceKind, log *zap.Logger) {
	providerAddr := common.HexToAddress(cfg.Chain.ProviderAddress)
	queueKey := fmt.Sprintf(queueKeyFmt, providerAddr.Hex(), kind)
	dlqKey := fmt.Sprintf(dlqKeyFmt, providerAddr.Hex(), kind)
	maxBatch := cfg.Settlement.BatchSize
	if maxBatch <= 0 {
		maxBatch = 50
	}
	// Half the settle interval as BLPOP timeout keeps shutdown responsive.
	blpopTimeout := time.Duration(cfg.Settlement.IntervalSec) * time.Second / 2

	log.Info("settle loop started", zap.String("queue", queueKey))

	for {
		if ctx.Err() != nil {
			log.Info("settle loop stopped", zap.String("queue", queueKey))
			return
		}

		results, err := rdb.BLPop(ctx, blpopTimeout, queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error("settle loop: BLPOP", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		firstItem := results[1]

		// Peek the rest without popping; items leave the queue only after
		// the batch outcome is known.
		remaining, err := rdb.LRange(ctx, queueKey, 0, int64(maxBatch-2)).Result()
		if err != nil {
			log.Error("settle loop: LRANGE", zap.Error(err))
			remaining = nil
		}
		rawItems := append([]string{firstItem}, remaining...)

		var records []queued
		for _, raw := range rawItems {
			var sr SignedRequest
			if err := json.Unmarshal([]byte(raw), &sr); err != nil {
				log.Error("settle loop: unmarshal request", zap.String("raw", raw), zap.Error(err))
				continue
			}
			records = append(records, queued{raw: raw, sr: sr})
		}
		if len(records) == 0 {
			continue
		}

		err = settleBatch(ctx, prv, onchain, providerAddr, kind, records)
		switch {
		case err == nil:
			for i := 1; i < len(rawItems); i++ {
				rdb.LPop(ctx, queueKey)
			}
			log.Info("batch settled", zap.Int("requests", len(records)))

		case errors.Is(err, errs.ErrDoubleSpend),
			errors.Is(err, errs.ErrProofInvalid),
			errors.Is(err, errs.ErrInsufficientBalance):
			// Unrecoverable for this batch: drain it to the DLQ for
			// operator inspection. Re-submitting unchanged would fail the
			// same way.
			for i, rec := range records {
				if i > 0 {
					rdb.LPop(ctx, queueKey)
				}
				rdb.RPush(ctx, dlqKey, rec.raw)
			}
			log.Error("batch rejected", zap.Int("requests", len(records)), zap.Error(err))

		default:
			// Transient (network, prover down). Put the popped item back at
			// the head and back off.
			rdb.LPush(ctx, queueKey, firstItem)
			log.Error("batch deferred", zap.Error(err))
			time.Sleep(5 * time.Second)
		}
	}
}

// queued pairs a deserialized request with its original queue payload so the
// raw bytes can move to the DLQ untouched.
type queued struct {
	raw string
	sr  SignedRequest
}

func settleBatch(ctx context.Context, prv *prover.Client, onchain Settler, providerAddr common.Address, kind ledger.ServiceKind, records []queued) error {
	reqs := make([]commitment.RequestRecord, len(records))
	sigs := make([][]byte, len(records))
	for i, rec := range records {
		reqs[i] = rec.sr.Request
		sigs[i] = rec.sr.Signature
	}

	calldata, err := prv.CombinedCalldata(ctx, prover.Entries(reqs, sigs))
	if err != nil {
		return err
	}
	proof, pubInputs, err := calldata.Proof()
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrProofInvalid, err)
	}

	// Cross-check the prover's public inputs against a local re-derivation
	// before spending gas on a doomed transaction.
	expected := ledger.BuildPublicInputs(reqs)
	if len(pubInputs) != len(expected) {
		return fmt.Errorf("%w: prover returned %d public inputs, expected %d", errs.ErrProofInvalid, len(pubInputs), len(expected))
	}
	for i := range expected {
		if expected[i].Cmp(pubInputs[i]) != 0 {
			return fmt.Errorf("%w: public input %d diverges from batch", errs.ErrProofInvalid, i)
		}
	}

	return onchain.SettleFees(ctx, &ledger.SettlementBatch{
		Provider:     providerAddr,
		Kind:         kind,
		Requests:     reqs,
		Proof:        proof,
		PublicInputs: pubInputs,
	})
}
