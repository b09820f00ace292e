// Package commitment builds the per-request settlement commitment.
//
// The commitment binds (nonce, user, provider) into a single field element
// that the prover re-derives inside the zk circuit, so the hash must be cheap
// algebraically: a Pedersen-style multi-scalar sum over the Baby Jubjub curve
// (the twisted Edwards curve over bn254's scalar field), not a general-purpose
// hash. Byte order and field widths are part of the circuit contract; any
// deviation breaks proof generation.
package commitment

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Input layout: little-endian nonce (8 bytes) ‖ user (20) ‖ provider (20),
// hashed as three 16-byte little-endian scalars against fixed generators.
const (
	inputLen = 48
	chunkLen = 16
	chunks   = inputLen / chunkLen
)

var (
	curve      = twistededwards.GetEdwardsCurve()
	generators [chunks]twistededwards.PointAffine
)

func init() {
	// Generators are nothing-up-my-sleeve multiples of the curve base,
	// derived from a fixed domain tag. The circuit hard-codes the same points.
	for i := range generators {
		tag := fmt.Sprintf("zg.settlement.pedersen.g%d", i)
		s := new(big.Int).SetBytes(crypto.Keccak256([]byte(tag)))
		s.Mod(s, &curve.Order)
		generators[i].ScalarMultiplication(&curve.Base, s)
	}
}

// Commit hashes (nonce, user, provider) into a 32-byte commitment: the
// big-endian X coordinate of the Pedersen sum, always a valid bn254 scalar
// field element. Pure and deterministic.
func Commit(nonce uint64, user, provider common.Address) [32]byte {
	var buf [inputLen]byte
	binary.LittleEndian.PutUint64(buf[0:8], nonce)
	copy(buf[8:28], user[:])
	copy(buf[28:48], provider[:])

	var acc, term twistededwards.PointAffine
	for i := 0; i < chunks; i++ {
		s := leScalar(buf[i*chunkLen : (i+1)*chunkLen])
		term.ScalarMultiplication(&generators[i], s)
		if i == 0 {
			acc.Set(&term)
		} else {
			acc.Add(&acc, &term)
		}
	}
	return acc.X.Bytes()
}

// leScalar interprets b as a little-endian integer. 16-byte chunks are always
// below the curve order, so no reduction is needed.
func leScalar(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}

// RequestRecord is one billable request as accumulated by the provider and
// later folded into a settlement batch. Fees are in wei (18-decimal fixed
// point).
type RequestRecord struct {
	Nonce    uint64         `json:"nonce"`
	ReqFee   *big.Int       `json:"req_fee"`
	ResFee   *big.Int       `json:"res_fee"`
	User     common.Address `json:"user"`
	Provider common.Address `json:"provider"`
}

// Hash returns the request's settlement commitment.
func (r *RequestRecord) Hash() [32]byte {
	return Commit(r.Nonce, r.User, r.Provider)
}

// Fee returns reqFee + resFee.
func (r *RequestRecord) Fee() *big.Int {
	return new(big.Int).Add(r.ReqFee, r.ResFee)
}
