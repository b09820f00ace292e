package session

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

var (
	testOwner    = common.HexToAddress("0xABCDEF1234567890ABCDEF1234567890ABCDEF12")
	testProvider = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, 10*time.Minute, 24*time.Hour), mr
}

// ── Settlement key cache ─────────────────────────────────────────────────────

func TestKeyCache_Roundtrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	raw := []byte{0x01, 0x02, 0x03, 0xff}

	if err := s.PutKey(ctx, testOwner, raw); err != nil {
		t.Fatalf("PutKey: %v", err)
	}
	got, err := s.GetKey(ctx, testOwner)
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("key: got %x want %x", got, raw)
	}
}

func TestKeyCache_Miss(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetKey(context.Background(), testOwner)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKeyCache_Expiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.PutKey(ctx, testOwner, []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(11 * time.Minute)

	_, err := s.GetKey(ctx, testOwner)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestKeyCache_Drop(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.PutKey(ctx, testOwner, []byte{0x01}) //nolint:errcheck

	if err := s.DropKey(ctx, testOwner); err != nil {
		t.Fatalf("DropKey: %v", err)
	}
	if _, err := s.GetKey(ctx, testOwner); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after drop, got %v", err)
	}
}

// ── Signer registry ──────────────────────────────────────────────────────────

func TestSignerRegistry_Roundtrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	pub := [2]*big.Int{big.NewInt(12345), big.NewInt(67890)}

	if err := s.PutSigner(ctx, testOwner, pub); err != nil {
		t.Fatalf("PutSigner: %v", err)
	}
	got, err := s.GetSigner(ctx, testOwner)
	if err != nil {
		t.Fatalf("GetSigner: %v", err)
	}
	if got[0].Cmp(pub[0]) != 0 || got[1].Cmp(pub[1]) != 0 {
		t.Fatalf("signer: got (%s,%s) want (%s,%s)", got[0], got[1], pub[0], pub[1])
	}
}

func TestSignerRegistry_Miss(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetSigner(context.Background(), testOwner)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ── Nonce admission ──────────────────────────────────────────────────────────

func TestReserveNonce_Monotonic(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, n := range []uint64{1, 2, 5} {
		ok, err := s.ReserveNonce(ctx, testOwner, testProvider, n)
		if err != nil {
			t.Fatalf("ReserveNonce(%d): %v", n, err)
		}
		if !ok {
			t.Fatalf("ReserveNonce(%d): rejected fresh nonce", n)
		}
	}

	// Replay and out-of-order reuse are both rejected.
	for _, n := range []uint64{5, 4, 1} {
		ok, err := s.ReserveNonce(ctx, testOwner, testProvider, n)
		if err != nil {
			t.Fatalf("ReserveNonce(%d): %v", n, err)
		}
		if ok {
			t.Fatalf("ReserveNonce(%d): admitted a burned nonce", n)
		}
	}
}

func TestReserveNonce_PerPairIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	otherUser := common.HexToAddress("0x2222222222222222222222222222222222222222")

	if ok, _ := s.ReserveNonce(ctx, testOwner, testProvider, 7); !ok {
		t.Fatal("first reservation rejected")
	}
	// A different user starts from its own mark.
	if ok, _ := s.ReserveNonce(ctx, otherUser, testProvider, 1); !ok {
		t.Fatal("nonce marks leaked across users")
	}
}
