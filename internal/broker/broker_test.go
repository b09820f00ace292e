package broker

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
	"github.com/0gfoundation/0g-compute-settlement/internal/session"
	"github.com/0gfoundation/0g-compute-settlement/internal/settlekey"
)

var (
	testOwner    = common.HexToAddress("0xABCDEF1234567890ABCDEF1234567890ABCDEF12")
	testProvider = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

// memContract backs the broker with in-memory ledger state.
type memContract struct {
	state *ledger.State
}

func (m *memContract) AddLedger(_ context.Context, owner common.Address, signer [2]*big.Int, amount *big.Int, encryptedPrivKey string) error {
	return m.state.AddLedger(owner, amount, signer, encryptedPrivKey)
}

func (m *memContract) DepositFund(_ context.Context, owner common.Address, amount *big.Int) error {
	return m.state.DepositFund(owner, amount)
}

func (m *memContract) TransferFund(_ context.Context, owner, provider common.Address, kind ledger.ServiceKind, amount *big.Int) error {
	return m.state.TransferFund(owner, provider, kind, amount)
}

func (m *memContract) RetrieveFund(_ context.Context, owner common.Address, providers []common.Address, kind ledger.ServiceKind) error {
	return m.state.RetrieveFund(owner, providers, kind)
}

func (m *memContract) ProcessRefunds(_ context.Context, owner common.Address) error {
	return m.state.ProcessRefunds(owner)
}

func (m *memContract) DeleteLedger(_ context.Context, owner common.Address) error {
	return m.state.DeleteLedger(owner)
}

func (m *memContract) GetLedger(_ context.Context, owner common.Address) (*ledger.Ledger, error) {
	return m.state.GetLedger(owner)
}

func (m *memContract) ListLedgers(_ context.Context) ([]*ledger.Ledger, error) {
	return m.state.ListLedgers()
}

func (m *memContract) GetAccount(_ context.Context, owner, provider common.Address, kind ledger.ServiceKind) (*ledger.SubAccount, error) {
	return m.state.GetAccount(owner, provider, kind)
}

// testWallet is a deterministic EIP-191-style signer.
func testWallet(t *testing.T) settlekey.WalletSign {
	t.Helper()
	key, err := crypto.HexToECDSA("289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")
	if err != nil {
		t.Fatal(err)
	}
	return func(message []byte) ([]byte, error) {
		return crypto.Sign(crypto.Keccak256(message), key)
	}
}

func newTestBroker(t *testing.T) (*Broker, *ledger.State, *session.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, 10*time.Minute, 24*time.Hour)
	state := ledger.NewState()
	b := New(testOwner, &memContract{state: state}, testWallet(t), store, zap.NewNop())
	return b, state, store
}

// ── AddLedger ────────────────────────────────────────────────────────────────

func TestAddLedger_RegistersKeyAndFunds(t *testing.T) {
	b, state, _ := newTestBroker(t)
	ctx := context.Background()

	if err := b.AddLedger(ctx, big.NewInt(1000)); err != nil {
		t.Fatalf("AddLedger: %v", err)
	}

	l, err := state.GetLedger(testOwner)
	if err != nil {
		t.Fatalf("ledger missing after AddLedger: %v", err)
	}
	if l.TotalBalance.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("total: got %s want 1000", l.TotalBalance)
	}
	if l.SignerPubKey[0].Sign() == 0 && l.SignerPubKey[1].Sign() == 0 {
		t.Error("no settlement signer registered")
	}
	if l.EncryptedPrivKey == "" {
		t.Error("no encrypted key backup registered")
	}

	// The backup must decrypt back to the registered signer.
	raw, err := settlekey.Decrypt(testWallet(t), l.EncryptedPrivKey)
	if err != nil {
		t.Fatalf("Decrypt backup: %v", err)
	}
	kp, err := settlekey.FromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	pub := kp.PublicKey()
	if pub[0].Cmp(l.SignerPubKey[0]) != 0 || pub[1].Cmp(l.SignerPubKey[1]) != 0 {
		t.Fatal("backup decrypts to a different key than the registered signer")
	}
}

func TestAddLedger_Duplicate(t *testing.T) {
	b, _, _ := newTestBroker(t)
	ctx := context.Background()
	if err := b.AddLedger(ctx, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := b.AddLedger(ctx, big.NewInt(1)); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddLedger_EncryptionFailureAborts(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, time.Minute, time.Hour)
	state := ledger.NewState()
	failing := func([]byte) ([]byte, error) { return nil, errors.New("wallet locked") }
	b := New(testOwner, &memContract{state: state}, failing, store, zap.NewNop())

	if err := b.AddLedger(context.Background(), big.NewInt(1000)); err == nil {
		t.Fatal("expected error when wallet cannot sign")
	}
	// No partial ledger.
	if _, err := state.GetLedger(testOwner); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("ledger exists despite aborted creation: %v", err)
	}
}

// ── Settlement key custody ───────────────────────────────────────────────────

func TestSettlementKey_FromCache(t *testing.T) {
	b, _, _ := newTestBroker(t)
	ctx := context.Background()
	if err := b.AddLedger(ctx, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}

	kp, err := b.SettlementKey(ctx)
	if err != nil {
		t.Fatalf("SettlementKey: %v", err)
	}
	l, _ := b.GetLedger(ctx)
	pub := kp.PublicKey()
	if pub[0].Cmp(l.SignerPubKey[0]) != 0 {
		t.Fatal("cached key does not match registered signer")
	}
}

func TestSettlementKey_RecoveredFromBackup(t *testing.T) {
	b, _, store := newTestBroker(t)
	ctx := context.Background()
	if err := b.AddLedger(ctx, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	// Session gone; only the on-chain backup remains.
	if err := store.DropKey(ctx, testOwner); err != nil {
		t.Fatal(err)
	}

	kp, err := b.SettlementKey(ctx)
	if err != nil {
		t.Fatalf("SettlementKey after cache loss: %v", err)
	}
	l, _ := b.GetLedger(ctx)
	pub := kp.PublicKey()
	if pub[0].Cmp(l.SignerPubKey[0]) != 0 || pub[1].Cmp(l.SignerPubKey[1]) != 0 {
		t.Fatal("recovered key does not match registered signer")
	}
}

func TestSettlementKey_NoBackup(t *testing.T) {
	b, state, _ := newTestBroker(t)
	ctx := context.Background()
	// A ledger created out of band, without a backup.
	if err := state.AddLedger(testOwner, big.NewInt(1), [2]*big.Int{big.NewInt(1), big.NewInt(2)}, ""); err != nil {
		t.Fatal(err)
	}

	_, err := b.SettlementKey(ctx)
	if !errors.Is(err, errs.ErrUnrecoverableKey) {
		t.Fatalf("expected ErrUnrecoverableKey, got %v", err)
	}
}

// ── Request signing ──────────────────────────────────────────────────────────

func TestSignRequest_VerifiesUnderRegisteredKey(t *testing.T) {
	b, _, _ := newTestBroker(t)
	ctx := context.Background()
	if err := b.AddLedger(ctx, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}

	rec := commitment.RequestRecord{
		Nonce:    1,
		ReqFee:   big.NewInt(10),
		ResFee:   big.NewInt(20),
		User:     testOwner,
		Provider: testProvider,
	}
	sig, err := b.SignRequest(ctx, rec)
	if err != nil {
		t.Fatalf("SignRequest: %v", err)
	}

	l, _ := b.GetLedger(ctx)
	ok, err := settlekey.Verify(l.SignerPubKey, rec.Hash(), sig)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("request signature does not verify under the registered signer")
	}
}

func TestSignRequest_ForeignUserRejected(t *testing.T) {
	b, _, _ := newTestBroker(t)
	rec := commitment.RequestRecord{
		Nonce:    1,
		ReqFee:   big.NewInt(1),
		ResFee:   big.NewInt(1),
		User:     testProvider, // not the broker's owner
		Provider: testProvider,
	}
	if _, err := b.SignRequest(context.Background(), rec); err == nil {
		t.Fatal("expected rejection for foreign user")
	}
}

// ── Ledger operations ────────────────────────────────────────────────────────

func TestGetLedgerWithDetail_AbsentServiceIsEmpty(t *testing.T) {
	b, _, _ := newTestBroker(t)
	ctx := context.Background()
	if err := b.AddLedger(ctx, big.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := b.TransferFund(ctx, testProvider, ledger.ServiceInference, big.NewInt(10)); err != nil {
		t.Fatal(err)
	}

	_, subs, err := b.GetLedgerWithDetail(ctx, ledger.ServiceFineTuning)
	if err != nil {
		t.Fatalf("GetLedgerWithDetail: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected empty fine-tuning detail, got %d accounts", len(subs))
	}

	_, subs, err = b.GetLedgerWithDetail(ctx, ledger.ServiceInference)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Provider != testProvider {
		t.Fatalf("inference detail: %+v", subs)
	}
}

func TestDeleteLedger_EvictsCachedKey(t *testing.T) {
	b, _, store := newTestBroker(t)
	ctx := context.Background()
	if err := b.AddLedger(ctx, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := b.DeleteLedger(ctx); err != nil {
		t.Fatalf("DeleteLedger: %v", err)
	}
	if _, err := store.GetKey(ctx, testOwner); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("cached key survived ledger deletion: %v", err)
	}
}

func TestTransferFund_UnknownKind(t *testing.T) {
	b, _, _ := newTestBroker(t)
	err := b.TransferFund(context.Background(), testProvider, "batch", big.NewInt(1))
	if err == nil {
		t.Fatal("expected error for unknown service kind")
	}
}
