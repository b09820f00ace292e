package provider

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
	"github.com/0gfoundation/0g-compute-settlement/internal/prover"
)

// memSettler runs batches through the in-memory verifier.
type memSettler struct {
	state *ledger.State
}

func (m *memSettler) SettleFees(_ context.Context, batch *ledger.SettlementBatch) error {
	return m.state.SettleFees(batch)
}

// proverStub answers solidity-calldata-combined with inputs derived the same
// way the verifier re-derives them, optionally skewed.
func proverStub(t *testing.T, skewFeeSum int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Requests []prover.RequestEntry `json:"requests"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode prover request: %v", err)
		}
		reqs := make([]commitment.RequestRecord, len(body.Requests))
		for i, e := range body.Requests {
			nonce, _ := new(big.Int).SetString(e.Nonce, 10)
			reqFee, _ := new(big.Int).SetString(e.ReqFee, 10)
			resFee, _ := new(big.Int).SetString(e.ResFee, 10)
			reqs[i] = commitment.RequestRecord{
				Nonce:    nonce.Uint64(),
				ReqFee:   reqFee,
				ResFee:   resFee,
				User:     common.HexToAddress(e.UserAddress),
				Provider: common.HexToAddress(e.ProviderAddress),
			}
		}
		inputs := ledger.BuildPublicInputs(reqs)
		inputs[0] = new(big.Int).Add(inputs[0], big.NewInt(skewFeeSum))
		out := prover.Calldata{
			PA: [2]string{"1", "2"},
			PB: [2][2]string{{"3", "4"}, {"5", "6"}},
			PC: [2]string{"7", "8"},
		}
		for _, in := range inputs {
			out.PubInputs = append(out.PubInputs, in.String())
		}
		json.NewEncoder(w).Encode(out) //nolint:errcheck
	}))
}

func fundedSettlementState(t *testing.T) *ledger.State {
	t.Helper()
	state := ledger.NewState()
	kpState := [2]*big.Int{big.NewInt(1), big.NewInt(2)}
	if err := state.AddLedger(testUser, big.NewInt(1000), kpState, ""); err != nil {
		t.Fatal(err)
	}
	if err := state.TransferFund(testUser, testProviderAddr, ledger.ServiceInference, big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	return state
}

func queuedBatch(t *testing.T, nonces ...uint64) []queued {
	t.Helper()
	out := make([]queued, len(nonces))
	for i, n := range nonces {
		sr := SignedRequest{
			Kind: ledger.ServiceInference,
			Request: commitment.RequestRecord{
				Nonce:    n,
				ReqFee:   big.NewInt(10),
				ResFee:   big.NewInt(20),
				User:     testUser,
				Provider: testProviderAddr,
			},
			Signature: []byte{0x01},
		}
		raw, err := json.Marshal(sr)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = queued{raw: string(raw), sr: sr}
	}
	return out
}

func TestSettleBatch_Success(t *testing.T) {
	srv := proverStub(t, 0)
	defer srv.Close()
	state := fundedSettlementState(t)

	err := settleBatch(context.Background(), prover.NewClient(srv.URL), &memSettler{state: state},
		testProviderAddr, ledger.ServiceInference, queuedBatch(t, 1, 2))
	if err != nil {
		t.Fatalf("settleBatch: %v", err)
	}

	sub, err := state.GetAccount(testUser, testProviderAddr, ledger.ServiceInference)
	if err != nil {
		t.Fatal(err)
	}
	// Two requests at 30 each.
	if sub.Balance.Cmp(big.NewInt(940)) != 0 {
		t.Fatalf("balance after settlement: got %s want 940", sub.Balance)
	}
	if sub.Nonce != 2 {
		t.Fatalf("nonce mark: got %d want 2", sub.Nonce)
	}
}

func TestSettleBatch_ProverInputSkewRejectedLocally(t *testing.T) {
	srv := proverStub(t, 1) // fee sum off by one
	defer srv.Close()
	state := fundedSettlementState(t)

	err := settleBatch(context.Background(), prover.NewClient(srv.URL), &memSettler{state: state},
		testProviderAddr, ledger.ServiceInference, queuedBatch(t, 1))
	if !errors.Is(err, errs.ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}

	// The verifier never saw the batch; balance untouched.
	sub, err := state.GetAccount(testUser, testProviderAddr, ledger.ServiceInference)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Balance.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("balance mutated: %s", sub.Balance)
	}
}

func TestSettleBatch_ReplayRejected(t *testing.T) {
	srv := proverStub(t, 0)
	defer srv.Close()
	state := fundedSettlementState(t)
	prv := prover.NewClient(srv.URL)
	settler := &memSettler{state: state}

	if err := settleBatch(context.Background(), prv, settler,
		testProviderAddr, ledger.ServiceInference, queuedBatch(t, 1)); err != nil {
		t.Fatal(err)
	}
	err := settleBatch(context.Background(), prv, settler,
		testProviderAddr, ledger.ServiceInference, queuedBatch(t, 1))
	if !errors.Is(err, errs.ErrDoubleSpend) {
		t.Fatalf("expected ErrDoubleSpend, got %v", err)
	}
}

func TestSettleBatch_ProverDown(t *testing.T) {
	srv := proverStub(t, 0)
	srv.Close()
	state := fundedSettlementState(t)

	err := settleBatch(context.Background(), prover.NewClient(srv.URL), &memSettler{state: state},
		testProviderAddr, ledger.ServiceInference, queuedBatch(t, 1))
	if !errors.Is(err, errs.ErrNetworkUnavailable) {
		t.Fatalf("expected ErrNetworkUnavailable, got %v", err)
	}
}
