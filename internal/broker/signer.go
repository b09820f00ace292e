package broker

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/0gfoundation/0g-compute-settlement/internal/delegate"
)

// RemoteSigner routes every wallet signature through the delegation gateway
// and blocks until the owner's wallet responds. It satisfies the chain
// client's TxSigner.
type RemoteSigner struct {
	addr common.Address
	del  *delegate.Delegate
}

func NewRemoteSigner(addr common.Address, del *delegate.Delegate) *RemoteSigner {
	return &RemoteSigner{addr: addr, del: del}
}

func (s *RemoteSigner) Address() common.Address { return s.addr }

func (s *RemoteSigner) SignText(ctx context.Context, message []byte) ([]byte, error) {
	return s.await(ctx, delegate.Operation{Kind: delegate.KindSignMessage, Payload: message})
}

func (s *RemoteSigner) SignTx(ctx context.Context, tx *types.Transaction, _ *big.Int) (*types.Transaction, error) {
	payload, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode tx for remote signing: %w", err)
	}
	raw, err := s.await(ctx, delegate.Operation{Kind: delegate.KindSignTransaction, Payload: payload})
	if err != nil {
		return nil, err
	}
	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("decode remotely signed tx: %w", err)
	}
	return signed, nil
}

func (s *RemoteSigner) await(ctx context.Context, op delegate.Operation) ([]byte, error) {
	req, err := s.del.CreateRequest("", s.addr, op)
	if err != nil {
		return nil, err
	}
	return s.del.WaitForSignature(ctx, req.OperationID, 0)
}
