// Package settlekey manages the per-ledger settlement signing key.
//
// The key is a Baby Jubjub EdDSA pair: requests are signed with it instead of
// the owner's wallet key, and the prover verifies those signatures inside the
// circuit. The public key is registered on the ledger as two field elements;
// the private key lives only in the session store, plus a wallet-encrypted
// backup stored on-chain (encrypt.go).
package settlekey

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
)

// KeyPair wraps an EdDSA private key with its embedded public key.
type KeyPair struct {
	priv *eddsa.PrivateKey
}

// GenerateKeyPair creates a fresh settlement key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := eddsa.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate settlement key: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// FromBytes restores a key pair from its serialized private key.
func FromBytes(b []byte) (*KeyPair, error) {
	priv := new(eddsa.PrivateKey)
	if _, err := priv.SetBytes(b); err != nil {
		return nil, fmt.Errorf("parse settlement key: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// Bytes serializes the private key (public key material included).
func (k *KeyPair) Bytes() []byte {
	return k.priv.Bytes()
}

// PublicKey returns the key's curve point as the two field elements the
// ledger contract stores.
func (k *KeyPair) PublicKey() [2]*big.Int {
	var x, y big.Int
	k.priv.PublicKey.A.X.BigInt(&x)
	k.priv.PublicKey.A.Y.BigInt(&y)
	return [2]*big.Int{&x, &y}
}

// Sign signs a request commitment. The commitment is already a field element,
// which is what the MiMC-based EdDSA expects.
func (k *KeyPair) Sign(hash [32]byte) ([]byte, error) {
	sig, err := k.priv.Sign(hash[:], mimc.NewMiMC())
	if err != nil {
		return nil, fmt.Errorf("sign commitment: %w", err)
	}
	return sig, nil
}

// Verify checks sig over hash against a public key given as the two on-chain
// field elements.
func Verify(pub [2]*big.Int, hash [32]byte, sig []byte) (bool, error) {
	var pk eddsa.PublicKey
	pk.A.X.SetBigInt(pub[0])
	pk.A.Y.SetBigInt(pub[1])
	ok, err := pk.Verify(sig, hash[:], mimc.NewMiMC())
	if err != nil {
		return false, fmt.Errorf("verify commitment signature: %w", err)
	}
	return ok, nil
}
