// Package prover is the HTTP client for the zk proof service. The service
// holds the circuit; this side only ships request batches over and converts
// the returned calldata into the proof bytes and public input words the
// ledger contract expects.
package prover

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/0gfoundation/0g-compute-settlement/internal/commitment"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

const requestTimeout = 30 * time.Second

// Client talks to one prover instance.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// KeyPair is a settlement keypair minted by the prover service. Field values
// are decimal big-int strings.
type KeyPair struct {
	PrivKey [2]string `json:"privkey"`
	PubKey  [2]string `json:"pubkey"`
}

// RequestEntry is the wire form of one billed request.
type RequestEntry struct {
	Nonce           string `json:"nonce"`
	ReqFee          string `json:"reqFee"`
	ResFee          string `json:"resFee"`
	UserAddress     string `json:"userAddress"`
	ProviderAddress string `json:"providerAddress"`
	Signature       string `json:"signature,omitempty"` // hex EdDSA signature
}

// Calldata is the proof in the shape settleFees consumes. Group elements and
// public inputs are decimal big-int strings.
type Calldata struct {
	PA        [2]string    `json:"pA"`
	PB        [2][2]string `json:"pB"`
	PC        [2]string    `json:"pC"`
	PubInputs []string     `json:"pubInputs"`
}

// Entries converts batch records plus their signatures to wire form.
func Entries(requests []commitment.RequestRecord, signatures [][]byte) []RequestEntry {
	out := make([]RequestEntry, len(requests))
	for i, r := range requests {
		out[i] = RequestEntry{
			Nonce:           fmt.Sprintf("%d", r.Nonce),
			ReqFee:          r.ReqFee.String(),
			ResFee:          r.ResFee.String(),
			UserAddress:     r.User.Hex(),
			ProviderAddress: r.Provider.Hex(),
		}
		if i < len(signatures) {
			out[i].Signature = hex.EncodeToString(signatures[i])
		}
	}
	return out
}

// SignKeyPair mints a fresh settlement keypair on the prover.
func (c *Client) SignKeyPair(ctx context.Context) (*KeyPair, error) {
	var kp KeyPair
	if err := c.do(ctx, http.MethodGet, "/sign-keypair", nil, &kp); err != nil {
		return nil, err
	}
	return &kp, nil
}

// Signatures asks the prover to sign each entry with the given private key.
// Used when the settlement key lives on the prover rather than in the broker.
func (c *Client) Signatures(ctx context.Context, entries []RequestEntry, privKey [2]string) ([]string, error) {
	body := struct {
		Requests []RequestEntry `json:"requests"`
		PrivKey  [2]string      `json:"privkey"`
	}{Requests: entries, PrivKey: privKey}

	var resp struct {
		Signatures []string `json:"signatures"`
	}
	if err := c.do(ctx, http.MethodPost, "/signature", body, &resp); err != nil {
		return nil, err
	}
	return resp.Signatures, nil
}

// CombinedCalldata proves a batch and returns contract-ready calldata. Each
// entry carries its own signature; the circuit checks them against the
// registered signer keys. The rust backend is the only one deployed.
func (c *Client) CombinedCalldata(ctx context.Context, entries []RequestEntry) (*Calldata, error) {
	body := struct {
		Requests []RequestEntry `json:"requests"`
	}{Requests: entries}

	var cd Calldata
	if err := c.do(ctx, http.MethodPost, "/solidity-calldata-combined?backend=rust", body, &cd); err != nil {
		return nil, err
	}
	return &cd, nil
}

// Proof flattens the Groth16 points into the 256-byte proof blob the contract
// takes, and parses the public inputs.
func (cd *Calldata) Proof() ([]byte, []*big.Int, error) {
	words := []string{
		cd.PA[0], cd.PA[1],
		cd.PB[0][0], cd.PB[0][1], cd.PB[1][0], cd.PB[1][1],
		cd.PC[0], cd.PC[1],
	}
	proof := make([]byte, 0, 32*len(words))
	for _, w := range words {
		v, err := parseBig(w)
		if err != nil {
			return nil, nil, fmt.Errorf("proof word %q: %w", w, err)
		}
		proof = append(proof, v.FillBytes(make([]byte, 32))...)
	}
	inputs := make([]*big.Int, len(cd.PubInputs))
	for i, w := range cd.PubInputs {
		v, err := parseBig(w)
		if err != nil {
			return nil, nil, fmt.Errorf("public input %q: %w", w, err)
		}
		inputs[i] = v
	}
	return proof, inputs, nil
}

func parseBig(s string) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("not an integer")
	}
	return v, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode prover request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build prover request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("prover %s %s: %w: %v", method, path, errs.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("prover %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode prover response: %w", err)
	}
	return nil
}
