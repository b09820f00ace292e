package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

var (
	userA = common.HexToAddress("0xAAAA00000000000000000000000000000000AAAA")
	userB = common.HexToAddress("0xBBBB00000000000000000000000000000000BBBB")
)

// settlementState funds each user's inference sub-account with providerA.
func settlementState(t *testing.T, funding map[common.Address]int64) *State {
	t.Helper()
	s := NewState()
	for user, amount := range funding {
		if err := s.AddLedger(user, big.NewInt(amount), testSigner(), ""); err != nil {
			t.Fatalf("AddLedger(%s): %v", user.Hex(), err)
		}
		if err := s.TransferFund(user, providerA, ServiceInference, big.NewInt(amount)); err != nil {
			t.Fatalf("TransferFund(%s): %v", user.Hex(), err)
		}
	}
	return s
}

func req(user common.Address, nonce uint64, reqFee, resFee int64) commitment.RequestRecord {
	return commitment.RequestRecord{
		Nonce:    nonce,
		ReqFee:   big.NewInt(reqFee),
		ResFee:   big.NewInt(resFee),
		User:     user,
		Provider: providerA,
	}
}

func batchOf(requests ...commitment.RequestRecord) *SettlementBatch {
	return &SettlementBatch{
		Provider:     providerA,
		Kind:         ServiceInference,
		Requests:     requests,
		Proof:        []byte{0x01},
		PublicInputs: BuildPublicInputs(requests),
	}
}

func subBalance(t *testing.T, s *State, user common.Address) *big.Int {
	t.Helper()
	sub, err := s.GetAccount(user, providerA, ServiceInference)
	if err != nil {
		t.Fatalf("GetAccount(%s): %v", user.Hex(), err)
	}
	return sub.Balance
}

// ── Success path ─────────────────────────────────────────────────────────────

func TestSettleFees_TwoRequestersTwoRequestsEach(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100, userB: 100})

	// Each requester owes 10 + 20; the provider collects 60 in one batch.
	batch := batchOf(
		req(userA, 1, 10, 0),
		req(userA, 2, 0, 20),
		req(userB, 1, 10, 0),
		req(userB, 2, 0, 20),
	)
	if got := batch.TotalFee(); got.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("TotalFee: got %s want 60", got)
	}

	if err := s.SettleFees(batch); err != nil {
		t.Fatalf("SettleFees: %v", err)
	}
	if got := subBalance(t, s, userA); got.Cmp(big.NewInt(70)) != 0 {
		t.Errorf("userA balance: got %s want 70", got)
	}
	if got := subBalance(t, s, userB); got.Cmp(big.NewInt(70)) != 0 {
		t.Errorf("userB balance: got %s want 70", got)
	}
	for _, u := range []common.Address{userA, userB} {
		l, _ := s.GetLedger(u)
		if l.TotalBalance.Cmp(big.NewInt(70)) != 0 {
			t.Errorf("%s total: got %s want 70", u.Hex(), l.TotalBalance)
		}
		if !s.checkInvariants(u) {
			t.Errorf("%s: conservation invariant violated", u.Hex())
		}
	}
}

func TestSettleFees_AdvancesNonce(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	if err := s.SettleFees(batchOf(req(userA, 3, 5, 5))); err != nil {
		t.Fatal(err)
	}
	sub, _ := s.GetAccount(userA, providerA, ServiceInference)
	if sub.Nonce != 3 {
		t.Fatalf("nonce high-water mark: got %d want 3", sub.Nonce)
	}

	// The next batch continues above the mark.
	if err := s.SettleFees(batchOf(req(userA, 4, 5, 5))); err != nil {
		t.Fatalf("follow-up batch: %v", err)
	}
}

// ── Double spend ─────────────────────────────────────────────────────────────

func TestSettleFees_ReplayedNonceRejected(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	if err := s.SettleFees(batchOf(req(userA, 1, 10, 0))); err != nil {
		t.Fatal(err)
	}
	before := subBalance(t, s, userA)

	err := s.SettleFees(batchOf(req(userA, 1, 10, 0)))
	if !errors.Is(err, errs.ErrDoubleSpend) {
		t.Fatalf("expected ErrDoubleSpend, got %v", err)
	}
	if got := subBalance(t, s, userA); got.Cmp(before) != 0 {
		t.Fatalf("rejected batch mutated balance: got %s want %s", got, before)
	}
}

func TestSettleFees_NonceBelowMarkRejected(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	if err := s.SettleFees(batchOf(req(userA, 5, 10, 0))); err != nil {
		t.Fatal(err)
	}
	err := s.SettleFees(batchOf(req(userA, 4, 10, 0)))
	if !errors.Is(err, errs.ErrDoubleSpend) {
		t.Fatalf("expected ErrDoubleSpend for stale nonce, got %v", err)
	}
}

func TestSettleFees_DuplicateInBatchRejected(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	before := subBalance(t, s, userA)

	err := s.SettleFees(batchOf(req(userA, 1, 10, 0), req(userA, 1, 10, 0)))
	if !errors.Is(err, errs.ErrDoubleSpend) {
		t.Fatalf("expected ErrDoubleSpend, got %v", err)
	}
	if got := subBalance(t, s, userA); got.Cmp(before) != 0 {
		t.Fatal("partial mutation from rejected batch")
	}
}

func TestSettleFees_RejectionIsAtomic(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100, userB: 100})
	if err := s.SettleFees(batchOf(req(userB, 9, 1, 0))); err != nil {
		t.Fatal(err)
	}

	// userA's request is fine; userB's replays nonce 9. Nothing may change.
	err := s.SettleFees(batchOf(req(userA, 1, 10, 0), req(userB, 9, 1, 0)))
	if !errors.Is(err, errs.ErrDoubleSpend) {
		t.Fatalf("expected ErrDoubleSpend, got %v", err)
	}
	if got := subBalance(t, s, userA); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("userA debited by rejected batch: %s", got)
	}
}

// ── Insufficient balance ─────────────────────────────────────────────────────

func TestSettleFees_InsufficientBalance(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 500})

	err := s.SettleFees(batchOf(req(userA, 1, 300, 300)))
	if !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := subBalance(t, s, userA); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("balance mutated by rejected batch: %s", got)
	}

	// The same commitments stay spendable once the fee fits.
	if err := s.SettleFees(batchOf(req(userA, 1, 300, 100))); err != nil {
		t.Fatalf("affordable batch after rejection: %v", err)
	}
}

// ── Proof input validation ───────────────────────────────────────────────────

func TestSettleFees_FeeSumMismatch(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	batch := batchOf(req(userA, 1, 10, 0))
	batch.PublicInputs[0] = big.NewInt(9)

	if err := s.SettleFees(batch); !errors.Is(err, errs.ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestSettleFees_CommitmentMismatch(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	batch := batchOf(req(userA, 1, 10, 0))
	batch.PublicInputs[2] = new(big.Int).Add(batch.PublicInputs[2], big.NewInt(1))

	if err := s.SettleFees(batch); !errors.Is(err, errs.ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestSettleFees_InputCountMismatch(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	batch := batchOf(req(userA, 1, 10, 0))
	batch.PublicInputs = batch.PublicInputs[:2]

	if err := s.SettleFees(batch); !errors.Is(err, errs.ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestSettleFees_ForeignProviderRequest(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	stray := req(userA, 1, 10, 0)
	stray.Provider = providerB
	batch := &SettlementBatch{
		Provider:     providerA,
		Kind:         ServiceInference,
		Requests:     []commitment.RequestRecord{stray},
		Proof:        []byte{0x01},
		PublicInputs: BuildPublicInputs([]commitment.RequestRecord{stray}),
	}
	if err := s.SettleFees(batch); !errors.Is(err, errs.ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestSettleFees_EmptyBatch(t *testing.T) {
	s := settlementState(t, map[common.Address]int64{userA: 100})
	if err := s.SettleFees(batchOf()); !errors.Is(err, errs.ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

// ── BuildPublicInputs ────────────────────────────────────────────────────────

func TestBuildPublicInputs_Layout(t *testing.T) {
	reqs := []commitment.RequestRecord{req(userA, 1, 10, 0), req(userA, 2, 0, 20)}
	inputs := BuildPublicInputs(reqs)

	if len(inputs) != 4 {
		t.Fatalf("inputs: got %d want 4", len(inputs))
	}
	if inputs[0].Cmp(big.NewInt(30)) != 0 {
		t.Errorf("fee sum: got %s want 30", inputs[0])
	}
	if inputs[1].Cmp(big.NewInt(2)) != 0 {
		t.Errorf("count: got %s want 2", inputs[1])
	}
	for i, r := range reqs {
		hash := r.Hash()
		if inputs[2+i].Cmp(new(big.Int).SetBytes(hash[:])) != 0 {
			t.Errorf("commitment word %d diverges", i)
		}
	}
}
