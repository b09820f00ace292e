package commitment

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	testUser     = common.HexToAddress("0xABCDEF1234567890ABCDEF1234567890ABCDEF12")
	testProvider = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

// ── Commit ───────────────────────────────────────────────────────────────────

func TestCommit_Deterministic(t *testing.T) {
	a := Commit(42, testUser, testProvider)
	b := Commit(42, testUser, testProvider)
	if a != b {
		t.Fatalf("same inputs produced different commitments:\n%x\n%x", a, b)
	}
}

func TestCommit_NonZero(t *testing.T) {
	var zero [32]byte
	if Commit(1, testUser, testProvider) == zero {
		t.Fatal("commitment is all zeros")
	}
}

func TestCommit_DistinctInputs(t *testing.T) {
	base := Commit(42, testUser, testProvider)

	cases := []struct {
		name string
		got  [32]byte
	}{
		{"different nonce", Commit(43, testUser, testProvider)},
		{"different user", Commit(42, testProvider, testProvider)},
		{"different provider", Commit(42, testUser, testUser)},
		{"swapped addresses", Commit(42, testProvider, testUser)},
	}
	for _, tc := range cases {
		if tc.got == base {
			t.Errorf("%s: commitment collides with base", tc.name)
		}
	}
}

func TestCommit_ZeroNonceDiffersFromOne(t *testing.T) {
	if Commit(0, testUser, testProvider) == Commit(1, testUser, testProvider) {
		t.Fatal("nonce 0 and 1 collide")
	}
}

// ── RequestRecord ────────────────────────────────────────────────────────────

func TestRequestRecord_Hash(t *testing.T) {
	rec := RequestRecord{
		Nonce:    7,
		ReqFee:   big.NewInt(10),
		ResFee:   big.NewInt(20),
		User:     testUser,
		Provider: testProvider,
	}
	if rec.Hash() != Commit(7, testUser, testProvider) {
		t.Fatal("Hash does not match Commit over the same triple")
	}
	// Fees do not enter the commitment; they are bound by the proof's fee sum.
	rec2 := rec
	rec2.ReqFee = big.NewInt(999)
	if rec.Hash() != rec2.Hash() {
		t.Fatal("fee change altered the commitment")
	}
}

func TestRequestRecord_Fee(t *testing.T) {
	rec := RequestRecord{ReqFee: big.NewInt(10), ResFee: big.NewInt(20)}
	if got := rec.Fee(); got.Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("Fee: got %s want 30", got)
	}
	// Fee must not mutate the record's fields.
	if rec.ReqFee.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("ReqFee mutated: %s", rec.ReqFee)
	}
}
