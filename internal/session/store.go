// Package session caches short-lived settlement state in Redis: decrypted
// settlement keys on the broker side, registered signer keys and nonce
// high-water marks on the provider side. Everything here is reconstructible
// from the chain, so TTL expiry is safe.
package session

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

const (
	keyPrefix    = "settle:key:"    // user tier, short TTL
	signerPrefix = "settle:signer:" // signer tier, long TTL
	noncePrefix  = "settle:nonce:"  // signer tier
)

// reserveNonce admits a nonce only if it is strictly above the stored mark,
// and advances the mark in the same step.
var reserveNonce = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local n = tonumber(ARGV[1])
if n <= cur then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1])
if tonumber(ARGV[2]) > 0 then
  redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return 1
`)

// Store wraps Redis with the two TTL tiers.
type Store struct {
	rdb       *redis.Client
	userTTL   time.Duration
	signerTTL time.Duration
}

func NewStore(rdb *redis.Client, userTTL, signerTTL time.Duration) *Store {
	return &Store{rdb: rdb, userTTL: userTTL, signerTTL: signerTTL}
}

// PutKey caches an owner's decrypted settlement key. User tier: the key
// re-derives from a wallet signature, so the TTL stays short.
func (s *Store) PutKey(ctx context.Context, owner common.Address, key []byte) error {
	return s.rdb.Set(ctx, keyPrefix+owner.Hex(), hex.EncodeToString(key), s.userTTL).Err()
}

// GetKey returns the cached settlement key, or ErrNotFound after expiry.
func (s *Store) GetKey(ctx context.Context, owner common.Address) ([]byte, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+owner.Hex()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get settlement key: %w", err)
	}
	return hex.DecodeString(val)
}

// DropKey evicts a cached settlement key.
func (s *Store) DropKey(ctx context.Context, owner common.Address) error {
	return s.rdb.Del(ctx, keyPrefix+owner.Hex()).Err()
}

type signerRecord struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// PutSigner registers the user's settlement public key on the provider side.
func (s *Store) PutSigner(ctx context.Context, user common.Address, pub [2]*big.Int) error {
	buf, err := json.Marshal(signerRecord{X: pub[0].String(), Y: pub[1].String()})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, signerPrefix+user.Hex(), buf, s.signerTTL).Err()
}

// GetSigner returns the user's registered settlement public key.
func (s *Store) GetSigner(ctx context.Context, user common.Address) ([2]*big.Int, error) {
	var zero [2]*big.Int
	val, err := s.rdb.Get(ctx, signerPrefix+user.Hex()).Result()
	if errors.Is(err, redis.Nil) {
		return zero, errs.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("get signer: %w", err)
	}
	var rec signerRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return zero, fmt.Errorf("decode signer: %w", err)
	}
	x, okX := new(big.Int).SetString(rec.X, 10)
	y, okY := new(big.Int).SetString(rec.Y, 10)
	if !okX || !okY {
		return zero, fmt.Errorf("decode signer: malformed key")
	}
	return [2]*big.Int{x, y}, nil
}

// ReserveNonce atomically admits nonce for (user, provider) if it is strictly
// above the current high-water mark. A false return means replay or
// out-of-order use of an already-burned nonce.
func (s *Store) ReserveNonce(ctx context.Context, user, provider common.Address, nonce uint64) (bool, error) {
	key := noncePrefix + provider.Hex() + ":" + user.Hex()
	res, err := reserveNonce.Run(ctx, s.rdb, []string{key},
		fmt.Sprintf("%d", nonce), int64(s.signerTTL.Seconds())).Int64()
	if err != nil {
		return false, fmt.Errorf("reserve nonce: %w", err)
	}
	return res == 1, nil
}
