// Package delegate implements the signature delegation rendezvous.
//
// When the wallet lives in another process (a browser extension), the
// orchestrator registers a signing request, suspends on WaitForSignature, and
// the remote signer fulfills it out of band. The channel-based design gives an
// at-most-once fulfillment guarantee: either the waiter receives the one
// buffered result, or the wait times out and every later fulfillment is
// rejected.
package delegate

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/0gfoundation/0g-compute-settlement/internal/errs"
)

// DefaultTimeout matches the gateway's long-poll window.
const DefaultTimeout = 65 * time.Second

// Kind names the operation the remote signer is asked to perform.
type Kind string

const (
	KindSignMessage     Kind = "sign-message"
	KindSignTransaction Kind = "sign-transaction"
)

// Operation is the descriptor shown to the remote signer.
type Operation struct {
	Kind    Kind   `json:"kind"`
	Payload []byte `json:"payload"`
}

// Request is one pending signature delegation.
type Request struct {
	OperationID string         `json:"operation_id"`
	Requester   common.Address `json:"requester"`
	Op          Operation      `json:"operation"`
	CreatedAt   time.Time      `json:"created_at"`
}

// result is what a fulfillment delivers to the waiter.
type result struct {
	signature []byte
	rejected  bool
}

type pending struct {
	req  Request
	ch   chan result // buffered 1; at most one send ever happens
	done bool        // fulfilled, rejected, or expired
}

// Delegate is the in-process rendezvous shared by the orchestrator and the
// gateway handlers.
type Delegate struct {
	mu      sync.Mutex
	timeout time.Duration
	reqs    map[string]*pending
}

func New(timeout time.Duration) *Delegate {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Delegate{
		timeout: timeout,
		reqs:    make(map[string]*pending),
	}
}

// Timeout returns the configured wait window.
func (d *Delegate) Timeout() time.Duration { return d.timeout }

// CreateRequest registers a pending delegation and returns it. An empty
// operationID gets a generated one; a duplicate ID fails AlreadyExists so two
// orchestrators cannot share a slot.
func (d *Delegate) CreateRequest(operationID string, requester common.Address, op Operation) (Request, error) {
	if operationID == "" {
		operationID = uuid.NewString()
	}
	req := Request{
		OperationID: operationID,
		Requester:   requester,
		Op:          op,
		CreatedAt:   time.Now(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.reqs[operationID]; exists {
		return Request{}, errs.ErrAlreadyExists
	}
	d.gcLocked()
	d.reqs[operationID] = &pending{req: req, ch: make(chan result, 1)}
	return req, nil
}

// Pending lists requests that are still awaiting fulfillment, for a polling
// remote signer.
func (d *Delegate) Pending(requester common.Address) []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Request
	for _, p := range d.reqs {
		if !p.done && p.req.Requester == requester {
			out = append(out, p.req)
		}
	}
	return out
}

// Fulfill attaches the signature produced by the remote signer. Exactly one
// fulfillment per operation is accepted; later ones fail AlreadyFulfilled.
// Fulfilling after the wait expired is void for the same reason.
func (d *Delegate) Fulfill(operationID string, signature []byte) error {
	return d.deliver(operationID, result{signature: signature})
}

// Reject records that the user explicitly declined to sign. The waiter gets
// UserRejectedSignature, which callers must not conflate with a timeout.
func (d *Delegate) Reject(operationID string) error {
	return d.deliver(operationID, result{rejected: true})
}

func (d *Delegate) deliver(operationID string, res result) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.reqs[operationID]
	if !ok {
		return errs.ErrNotFound
	}
	if p.done {
		return errs.ErrAlreadyFulfilled
	}
	p.done = true
	p.ch <- res
	return nil
}

// WaitForSignature suspends until the operation is fulfilled, rejected, the
// timeout elapses, or ctx is cancelled. timeout <= 0 uses the default. After
// a timeout return the slot is sealed: a late fulfillment is never applied.
func (d *Delegate) WaitForSignature(ctx context.Context, operationID string, timeout time.Duration) ([]byte, error) {
	d.mu.Lock()
	p, ok := d.reqs[operationID]
	d.mu.Unlock()
	if !ok {
		return nil, errs.ErrNotFound
	}
	if timeout <= 0 {
		timeout = d.timeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-p.ch:
		return d.consume(operationID, res)
	case <-ctx.Done():
		d.expire(operationID)
		return nil, ctx.Err()
	case <-timer.C:
		// A fulfillment may have raced the timer; it wins only if it
		// already landed in the buffer before we seal the slot.
		d.mu.Lock()
		select {
		case res := <-p.ch:
			d.mu.Unlock()
			return d.consume(operationID, res)
		default:
			p.done = true
			delete(d.reqs, operationID)
			d.mu.Unlock()
			return nil, errs.ErrSignatureTimeout
		}
	}
}

func (d *Delegate) consume(operationID string, res result) ([]byte, error) {
	d.mu.Lock()
	delete(d.reqs, operationID)
	d.mu.Unlock()
	if res.rejected {
		return nil, errs.ErrUserRejectedSignature
	}
	return res.signature, nil
}

func (d *Delegate) expire(operationID string) {
	d.mu.Lock()
	if p, ok := d.reqs[operationID]; ok {
		p.done = true
		delete(d.reqs, operationID)
	}
	d.mu.Unlock()
}

// gcLocked drops abandoned requests nobody waited on. An abandoned request
// stays fulfillable for its own window; past that the fulfillment would be
// unconsumed anyway.
func (d *Delegate) gcLocked() {
	cutoff := time.Now().Add(-2 * d.timeout)
	for id, p := range d.reqs {
		if p.req.CreatedAt.Before(cutoff) {
			delete(d.reqs, id)
		}
	}
}
