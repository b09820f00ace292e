package settlekey

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

// WalletSign produces an EIP-191 personal signature with the owner's wallet.
// In remote-signer mode this is backed by the signature delegate.
type WalletSign func(message []byte) ([]byte, error)

// encryptionSeed is the canonical message the wallet signs to derive the
// encryption key. It must never change: the same signature must be
// re-derivable later to decrypt the backup.
const encryptionSeed = "Sign to encrypt your settlement signing key. This signature is used as an encryption key and costs no gas."

// Encrypt seals the serialized private key under a key derived from the
// owner's wallet signature (keccak256 of the signature → AES-256-GCM).
// The result is hex: nonce ‖ ciphertext, suitable for contract storage.
//
// A failure here aborts ledger creation entirely; the caller must not
// register a ledger without the encrypted backup.
func Encrypt(sign WalletSign, privBytes []byte) (string, error) {
	gcm, err := walletCipher(sign)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encrypt settlement key: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, privBytes, nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt recovers the private key from the on-chain backup. A wallet that
// cannot reproduce the original signature, or a corrupted ciphertext, means
// the key is unrecoverable, and Decrypt says so explicitly.
func Decrypt(sign WalletSign, ciphertextHex string) ([]byte, error) {
	gcm, err := walletCipher(sign)
	if err != nil {
		return nil, err
	}
	sealed, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key backup", errs.ErrUnrecoverableKey)
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("%w: truncated key backup", errs.ErrUnrecoverableKey)
	}
	nonce, ct := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	priv, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: key backup does not match wallet", errs.ErrUnrecoverableKey)
	}
	return priv, nil
}

func walletCipher(sign WalletSign) (cipher.AEAD, error) {
	sig, err := sign([]byte(encryptionSeed))
	if err != nil {
		return nil, fmt.Errorf("wallet signature for key encryption: %w", err)
	}
	block, err := aes.NewCipher(crypto.Keccak256(sig))
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	return gcm, nil
}
