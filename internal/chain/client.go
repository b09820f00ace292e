// Package chain wraps go-ethereum and the generated LedgerServing binding
// behind the ledger operation set. All mutators go through the configured
// TxSigner, so the same client serves both a local-key deployment and a
// gateway deployment where the owner's wallet signs remotely.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/0gfoundation/0g-compute-settlement/internal/config"
	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
)

// Client is the on-chain ledger backend.
type Client struct {
	eth            *ethclient.Client
	contract       *LedgerServing
	contractAddr   common.Address
	chainID        *big.Int
	signer         TxSigner
	receiptTries   int
	receiptSpacing time.Duration
}

func NewClient(cfg *config.Config, signer TxSigner) (*Client, error) {
	eth, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	addr := common.HexToAddress(cfg.Chain.ContractAddress)
	contract, err := NewLedgerServing(addr, eth)
	if err != nil {
		return nil, fmt.Errorf("bind contract: %w", err)
	}

	tries := cfg.Settlement.ReceiptTries
	if tries <= 0 {
		tries = 10
	}
	spacing := time.Duration(cfg.Settlement.ReceiptSpacingSec) * time.Second
	if spacing <= 0 {
		spacing = 2 * time.Second
	}

	return &Client{
		eth:            eth,
		contract:       contract,
		contractAddr:   addr,
		chainID:        big.NewInt(cfg.Chain.ChainID),
		signer:         signer,
		receiptTries:   tries,
		receiptSpacing: spacing,
	}, nil
}

// ChainID returns the configured chain ID.
func (c *Client) ChainID() *big.Int { return c.chainID }

// ContractAddress returns the ledger contract address.
func (c *Client) ContractAddress() common.Address { return c.contractAddr }

// Signer returns the wallet behind this client.
func (c *Client) Signer() TxSigner { return c.signer }

// transactOpts routes transaction signing through the TxSigner. NoSend stays
// false; the bound contract estimates, signs, and broadcasts.
func (c *Client) transactOpts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	return &bind.TransactOpts{
		From:  c.signer.Address(),
		Value: value,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != c.signer.Address() {
				return nil, bind.ErrNotAuthorized
			}
			return c.signer.SignTx(ctx, tx, c.chainID)
		},
		Context: ctx,
	}
}

func (c *Client) requireOwner(owner common.Address) error {
	if owner != c.signer.Address() {
		return fmt.Errorf("wallet %s cannot act for ledger owner %s", c.signer.Address().Hex(), owner.Hex())
	}
	return nil
}

// confirm polls for the transaction receipt. When the receipt never shows up
// inside the polling window the transaction may still have landed, so if the
// caller supplied a state probe we trust the probe over the missing receipt.
func (c *Client) confirm(ctx context.Context, tx *types.Transaction, landed func(context.Context) (bool, error)) error {
	for i := 0; i < c.receiptTries; i++ {
		receipt, err := c.eth.TransactionReceipt(ctx, tx.Hash())
		if err == nil {
			if receipt.Status == types.ReceiptStatusSuccessful {
				return nil
			}
			return fmt.Errorf("tx %s reverted", tx.Hash().Hex())
		}
		// Not mined yet, or a transient RPC fault. Either way, wait and
		// ask again.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.receiptSpacing):
		}
	}
	if landed != nil {
		if ok, err := landed(ctx); err == nil && ok {
			return nil
		}
	}
	return fmt.Errorf("tx %s unconfirmed after %d tries: %w", tx.Hash().Hex(), c.receiptTries, errs.ErrNetworkUnavailable)
}

// AddLedger registers the owner's ledger, funding it with amount and storing
// the settlement signer plus the wallet-encrypted key backup on chain.
func (c *Client) AddLedger(ctx context.Context, owner common.Address, signer [2]*big.Int, amount *big.Int, encryptedPrivKey string) error {
	if err := c.requireOwner(owner); err != nil {
		return err
	}
	tx, err := c.contract.AddLedger(c.transactOpts(ctx, amount), signer, encryptedPrivKey)
	if err != nil {
		return wrapRPCError("addLedger", err)
	}
	return c.confirm(ctx, tx, func(ctx context.Context) (bool, error) {
		_, err := c.contract.GetLedger(&bind.CallOpts{Context: ctx}, owner)
		return err == nil, err
	})
}

// DepositFund adds amount to the owner's total and available balance.
func (c *Client) DepositFund(ctx context.Context, owner common.Address, amount *big.Int) error {
	if err := c.requireOwner(owner); err != nil {
		return err
	}
	before, err := c.GetLedger(ctx, owner)
	if err != nil {
		return err
	}
	want := new(big.Int).Add(before.TotalBalance, amount)

	tx, err := c.contract.DepositFund(c.transactOpts(ctx, amount))
	if err != nil {
		return wrapRPCError("depositFund", err)
	}
	return c.confirm(ctx, tx, func(ctx context.Context) (bool, error) {
		after, err := c.GetLedger(ctx, owner)
		if err != nil {
			return false, err
		}
		return after.TotalBalance.Cmp(want) >= 0, nil
	})
}

// TransferFund escrows amount from the available balance into the provider's
// sub-account for one service.
func (c *Client) TransferFund(ctx context.Context, owner, provider common.Address, kind ledger.ServiceKind, amount *big.Int) error {
	if err := c.requireOwner(owner); err != nil {
		return err
	}
	var before *big.Int
	if sub, err := c.GetAccount(ctx, owner, provider, kind); err == nil {
		before = sub.Balance
	} else {
		before = new(big.Int)
	}
	want := new(big.Int).Add(before, amount)

	tx, err := c.contract.TransferFund(c.transactOpts(ctx, nil), provider, string(kind), amount)
	if err != nil {
		return wrapRPCError("transferFund", err)
	}
	return c.confirm(ctx, tx, func(ctx context.Context) (bool, error) {
		sub, err := c.GetAccount(ctx, owner, provider, kind)
		if err != nil {
			return false, err
		}
		return sub.Balance.Cmp(want) >= 0, nil
	})
}

// RetrieveFund earmarks the unspent surplus of each named sub-account for
// refund. The contract folds the release of already-unlocked refunds into the
// same call.
func (c *Client) RetrieveFund(ctx context.Context, owner common.Address, providers []common.Address, kind ledger.ServiceKind) error {
	if err := c.requireOwner(owner); err != nil {
		return err
	}
	tx, err := c.contract.RetrieveFund(c.transactOpts(ctx, nil), providers, string(kind))
	if err != nil {
		return wrapRPCError("retrieveFund", err)
	}
	return c.confirm(ctx, tx, nil)
}

// ProcessRefunds releases matured refunds back to the available balance. The
// contract performs release inside retrieveFund, so this re-submits the
// owner's full provider set for both services.
func (c *Client) ProcessRefunds(ctx context.Context, owner common.Address) error {
	if err := c.requireOwner(owner); err != nil {
		return err
	}
	raw, err := c.contract.GetLedger(&bind.CallOpts{Context: ctx}, owner)
	if err != nil {
		return wrapRPCError("getLedger", err)
	}
	if len(raw.InferenceProviders) > 0 {
		if err := c.RetrieveFund(ctx, owner, raw.InferenceProviders, ledger.ServiceInference); err != nil {
			return err
		}
	}
	if len(raw.FineTuningProviders) > 0 {
		if err := c.RetrieveFund(ctx, owner, raw.FineTuningProviders, ledger.ServiceFineTuning); err != nil {
			return err
		}
	}
	return nil
}

// DeleteLedger removes the owner's ledger. Reverts on chain while any
// sub-account still holds funds.
func (c *Client) DeleteLedger(ctx context.Context, owner common.Address) error {
	if err := c.requireOwner(owner); err != nil {
		return err
	}
	tx, err := c.contract.DeleteLedger(c.transactOpts(ctx, nil))
	if err != nil {
		return wrapRPCError("deleteLedger", err)
	}
	return c.confirm(ctx, tx, func(ctx context.Context) (bool, error) {
		_, err := c.GetLedger(ctx, owner)
		return errors.Is(err, errs.ErrNotFound), nil
	})
}

// SettleFees submits a proved batch to the contract.
func (c *Client) SettleFees(ctx context.Context, batch *ledger.SettlementBatch) error {
	tx, err := c.contract.SettleFees(c.transactOpts(ctx, nil), batch.Proof, batch.PublicInputs)
	if err != nil {
		return wrapRPCError("settleFees", err)
	}
	return c.confirm(ctx, tx, nil)
}

// GetLedger reads the owner's ledger and hydrates every sub-account with its
// per-service balance detail.
func (c *Client) GetLedger(ctx context.Context, owner common.Address) (*ledger.Ledger, error) {
	raw, err := c.contract.GetLedger(&bind.CallOpts{Context: ctx}, owner)
	if err != nil {
		return nil, wrapRPCError("getLedger", err)
	}
	return c.hydrate(ctx, raw)
}

// ListLedgers reads every ledger with sub-account detail.
func (c *Client) ListLedgers(ctx context.Context) ([]*ledger.Ledger, error) {
	raws, err := c.contract.GetAllLedgers(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, wrapRPCError("getAllLedgers", err)
	}
	out := make([]*ledger.Ledger, 0, len(raws))
	for _, raw := range raws {
		l, err := c.hydrate(ctx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// GetAccount reads one (owner, provider, service) sub-account.
func (c *Client) GetAccount(ctx context.Context, owner, provider common.Address, kind ledger.ServiceKind) (*ledger.SubAccount, error) {
	acct, err := c.contract.GetAccount(&bind.CallOpts{Context: ctx}, owner, provider, string(kind))
	if err != nil {
		return nil, wrapRPCError("getAccount", err)
	}
	return &ledger.SubAccount{
		Provider:      provider,
		Balance:       acct.Balance,
		PendingRefund: acct.PendingRefund,
	}, nil
}

// LockTime reads the refund lock period, in seconds.
func (c *Client) LockTime(ctx context.Context) (*big.Int, error) {
	lt, err := c.contract.LockTime(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, wrapRPCError("lockTime", err)
	}
	return lt, nil
}

func (c *Client) hydrate(ctx context.Context, raw LedgerServingLedger) (*ledger.Ledger, error) {
	l := &ledger.Ledger{
		Owner:            raw.User,
		TotalBalance:     raw.TotalBalance,
		AvailableBalance: raw.AvailableBalance,
		SignerPubKey:     raw.InferenceSigner,
		EncryptedPrivKey: raw.AdditionalInfo,
		Inference:        make(map[common.Address]*ledger.SubAccount, len(raw.InferenceProviders)),
		FineTuning:       make(map[common.Address]*ledger.SubAccount, len(raw.FineTuningProviders)),
	}
	for _, p := range raw.InferenceProviders {
		sub, err := c.GetAccount(ctx, raw.User, p, ledger.ServiceInference)
		if err != nil {
			return nil, err
		}
		l.Inference[p] = sub
	}
	for _, p := range raw.FineTuningProviders {
		sub, err := c.GetAccount(ctx, raw.User, p, ledger.ServiceFineTuning)
		if err != nil {
			return nil, err
		}
		l.FineTuning[p] = sub
	}
	return l, nil
}
