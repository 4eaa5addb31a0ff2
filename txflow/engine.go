package txflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/mintkit/mintkit-go/lifecycle"
)

// Stable error codes carried by lifecycle.StatusError.
const (
	CodeBuildFailed   = "buildFailed"
	CodeSubmitFailed  = "submitFailed"
	CodeReceiptFailed = "receiptFailed"
	CodeReverted      = "executionReverted"
)

var (
	ErrNoCalls           = errors.New("calls builder returned no calls")
	ErrInFlight          = errors.New("a submission is already in flight")
	ErrExecutionReverted = errors.New("transaction execution reverted")

	// ErrReceiptNotFound is returned by a Backend while a transaction is
	// not yet included in a block.
	ErrReceiptNotFound = errors.New("transaction receipt not found")
)

// Backend submits calls and looks up their receipts. It is implemented
// by an RPC client in production and mocked in tests.
type Backend interface {
	SendCall(ctx context.Context, call Call) (common.Hash, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Engine is a reference execution subsystem: it obtains calls from
// Params.Calls, broadcasts them through a Backend, waits for receipts,
// and reports every transition through Params.OnStatus.
type Engine struct {
	backend Backend

	pollInterval time.Duration
	waitTimeout  time.Duration
	retries      int

	inFlight atomic.Bool
}

type Option func(*Engine)

// WithPollInterval sets how often pending receipts are re-checked.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) { e.pollInterval = d }
}

// WithWaitTimeout bounds the wait for receipts of one submission pass.
func WithWaitTimeout(d time.Duration) Option {
	return func(e *Engine) { e.waitTimeout = d }
}

// WithRetries makes Submit re-run a failed flow up to n more times.
// Each pass invokes Params.Calls again to pick up fresh state.
func WithRetries(n int) Option {
	return func(e *Engine) { e.retries = n }
}

func NewEngine(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:      backend,
		pollInterval: 2 * time.Second,
		waitTimeout:  2 * time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InFlight reports whether a submission is currently running. Controls
// read it to disable their affordance while busy.
func (e *Engine) InFlight() bool {
	return e.inFlight.Load()
}

// Submit runs one complete submission flow. All statuses of the flow,
// including those of retry passes, share one attempt id.
func (e *Engine) Submit(ctx context.Context, params Params) error {
	if params.Calls == nil {
		return errors.New("params has no calls func")
	}

	onStatus := params.OnStatus
	if onStatus == nil {
		onStatus = func(lifecycle.Status) {}
	}

	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer e.inFlight.Store(false)

	meta := lifecycle.Meta{AttemptID: uuid.New()}

	var lastErr error
	for pass := 0; pass <= e.retries; pass++ {
		err := e.run(ctx, params.Calls, meta, onStatus)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (e *Engine) run(ctx context.Context, calls CallsFunc, meta lifecycle.Meta, onStatus func(lifecycle.Status)) error {
	onStatus(lifecycle.StatusBuildingTransaction{Meta: meta})

	list, err := calls(ctx)
	if err != nil {
		onStatus(lifecycle.StatusError{Meta: meta, Code: CodeBuildFailed, Message: "failed to build mint transaction", Err: err})
		return fmt.Errorf("build calls: %w", err)
	}
	if len(list) == 0 {
		onStatus(lifecycle.StatusError{Meta: meta, Code: CodeBuildFailed, Message: "nothing to submit", Err: ErrNoCalls})
		return ErrNoCalls
	}

	hashes := make([]common.Hash, 0, len(list))
	for i, call := range list {
		hash, err := e.backend.SendCall(ctx, call)
		if err != nil {
			onStatus(lifecycle.StatusError{Meta: meta, Code: CodeSubmitFailed, Message: "failed to broadcast transaction", Err: err})
			return fmt.Errorf("send call %d: %w", i, err)
		}
		hashes = append(hashes, hash)

		if i == 0 {
			onStatus(lifecycle.StatusTransactionPending{Meta: meta})
		}
	}

	onStatus(lifecycle.StatusTransactionLegacyExecuted{Meta: meta, TransactionHashes: hashes})

	receipts, err := e.waitReceipts(ctx, hashes)
	if err != nil {
		onStatus(lifecycle.StatusError{Meta: meta, Code: CodeReceiptFailed, Message: "failed to confirm transaction", Err: err})
		return err
	}

	for _, r := range receipts {
		if r.Status == types.ReceiptStatusFailed {
			onStatus(lifecycle.StatusError{Meta: meta, Code: CodeReverted, Message: "transaction reverted", Err: ErrExecutionReverted})
			return fmt.Errorf("transaction %s: %w", r.TxHash, ErrExecutionReverted)
		}
	}

	onStatus(lifecycle.StatusSuccess{Meta: meta, Receipts: receipts})
	return nil
}

// waitReceipts polls the backend until every hash has a receipt, the
// wait timeout passes, or ctx is cancelled.
func (e *Engine) waitReceipts(ctx context.Context, hashes []common.Hash) ([]*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, e.waitTimeout)
	defer cancel()

	receipts := make([]*types.Receipt, len(hashes))
	pending := len(hashes)

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		for i, hash := range hashes {
			if receipts[i] != nil {
				continue
			}

			r, err := e.backend.TransactionReceipt(ctx, hash)
			switch {
			case errors.Is(err, ErrReceiptNotFound):
				continue
			case err != nil:
				return nil, fmt.Errorf("get receipt for %s: %w", hash, err)
			case r == nil:
				continue
			}

			receipts[i] = r
			pending--
		}

		if pending == 0 {
			return receipts, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait receipts: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
