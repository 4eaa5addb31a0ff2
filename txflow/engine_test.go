package txflow

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mintkit/mintkit-go/lifecycle"
)

type mockBackend struct {
	sendCall           func(ctx context.Context, call Call) (common.Hash, error)
	transactionReceipt func(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

func (m *mockBackend) SendCall(ctx context.Context, call Call) (common.Hash, error) {
	return m.sendCall(ctx, call)
}

func (m *mockBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return m.transactionReceipt(ctx, hash)
}

func testEngine(b Backend, opts ...Option) *Engine {
	opts = append([]Option{
		WithPollInterval(time.Millisecond),
		WithWaitTimeout(time.Second),
	}, opts...)
	return NewEngine(b, opts...)
}

func statusNames(list []lifecycle.Status) []string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.StatusName()
	}
	return names
}

func requireNames(t *testing.T, got []lifecycle.Status, want ...string) {
	t.Helper()

	names := statusNames(got)
	if len(names) != len(want) {
		t.Fatalf("statuses %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("statuses %v, want %v", names, want)
		}
	}
}

func TestEngineSubmitSuccess(t *testing.T) {
	calls := []Call{
		{To: common.HexToAddress("0x01"), Value: big.NewInt(1)},
		{To: common.HexToAddress("0x02")},
	}

	var sent int
	var polls int32
	backend := &mockBackend{
		sendCall: func(ctx context.Context, call Call) (common.Hash, error) {
			sent++
			return common.BytesToHash([]byte{byte(sent)}), nil
		},
		transactionReceipt: func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
			// first round of polling misses, receipts land afterwards
			if atomic.AddInt32(&polls, 1) <= 2 {
				return nil, ErrReceiptNotFound
			}
			return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}, nil
		},
	}

	journal := &lifecycle.Journal{}
	err := testEngine(backend).Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			return calls, nil
		},
		OnStatus: lifecycle.Relay(journal),
	})
	if err != nil {
		t.Fatal(err)
	}

	got := journal.Statuses()
	requireNames(t, got,
		"buildingTransaction", "transactionPending", "transactionLegacyExecuted", "success")

	exec := got[2].(lifecycle.StatusTransactionLegacyExecuted)
	if len(exec.TransactionHashes) != len(calls) {
		t.Fatalf("%d hashes", len(exec.TransactionHashes))
	}

	success := got[3].(lifecycle.StatusSuccess)
	if len(success.Receipts) != len(calls) {
		t.Fatalf("%d receipts", len(success.Receipts))
	}
	for i, r := range success.Receipts {
		if r.TxHash != exec.TransactionHashes[i] {
			t.Fatalf("receipt %d for %s, want %s", i, r.TxHash, exec.TransactionHashes[i])
		}
	}

	// every status of the flow shares one attempt id
	for _, s := range got[1:] {
		if a := attemptOf(s); a != attemptOf(got[0]) {
			t.Fatalf("attempt id mismatch: %s vs %s", a, attemptOf(got[0]))
		}
	}
}

func attemptOf(s lifecycle.Status) string {
	switch v := s.(type) {
	case lifecycle.StatusBuildingTransaction:
		return v.AttemptID.String()
	case lifecycle.StatusTransactionPending:
		return v.AttemptID.String()
	case lifecycle.StatusTransactionLegacyExecuted:
		return v.AttemptID.String()
	case lifecycle.StatusSuccess:
		return v.AttemptID.String()
	case lifecycle.StatusError:
		return v.AttemptID.String()
	}
	return ""
}

func TestEngineSubmitBuildError(t *testing.T) {
	errBuild := errors.New("builder rejected")

	journal := &lifecycle.Journal{}
	err := testEngine(&mockBackend{}).Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			return nil, errBuild
		},
		OnStatus: lifecycle.Relay(journal),
	})
	if !errors.Is(err, errBuild) {
		t.Fatalf("err = %v", err)
	}

	requireNames(t, journal.Statuses(), "buildingTransaction", "error")

	fail := journal.Last().(lifecycle.StatusError)
	if fail.Code != CodeBuildFailed {
		t.Fatalf("code %q", fail.Code)
	}
	if !errors.Is(fail.Err, errBuild) {
		t.Fatalf("status err = %v", fail.Err)
	}
}

func TestEngineSubmitNoCalls(t *testing.T) {
	journal := &lifecycle.Journal{}
	err := testEngine(&mockBackend{}).Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			return nil, nil
		},
		OnStatus: lifecycle.Relay(journal),
	})
	if !errors.Is(err, ErrNoCalls) {
		t.Fatalf("err = %v", err)
	}

	requireNames(t, journal.Statuses(), "buildingTransaction", "error")
}

func TestEngineSubmitSendError(t *testing.T) {
	errSend := errors.New("nonce too low")
	backend := &mockBackend{
		sendCall: func(ctx context.Context, call Call) (common.Hash, error) {
			return common.Hash{}, errSend
		},
	}

	journal := &lifecycle.Journal{}
	err := testEngine(backend).Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			return []Call{{}}, nil
		},
		OnStatus: lifecycle.Relay(journal),
	})
	if !errors.Is(err, errSend) {
		t.Fatalf("err = %v", err)
	}

	requireNames(t, journal.Statuses(), "buildingTransaction", "error")
	if fail := journal.Last().(lifecycle.StatusError); fail.Code != CodeSubmitFailed {
		t.Fatalf("code %q", fail.Code)
	}
}

func TestEngineSubmitReverted(t *testing.T) {
	backend := &mockBackend{
		sendCall: func(ctx context.Context, call Call) (common.Hash, error) {
			return common.HexToHash("0x0a"), nil
		},
		transactionReceipt: func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
			return &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: hash}, nil
		},
	}

	journal := &lifecycle.Journal{}
	err := testEngine(backend).Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			return []Call{{}}, nil
		},
		OnStatus: lifecycle.Relay(journal),
	})
	if !errors.Is(err, ErrExecutionReverted) {
		t.Fatalf("err = %v", err)
	}

	requireNames(t, journal.Statuses(),
		"buildingTransaction", "transactionPending", "transactionLegacyExecuted", "error")
	if fail := journal.Last().(lifecycle.StatusError); fail.Code != CodeReverted {
		t.Fatalf("code %q", fail.Code)
	}
}

func TestEngineSubmitReceiptTimeout(t *testing.T) {
	backend := &mockBackend{
		sendCall: func(ctx context.Context, call Call) (common.Hash, error) {
			return common.HexToHash("0x0b"), nil
		},
		transactionReceipt: func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
			return nil, ErrReceiptNotFound
		},
	}

	engine := testEngine(backend, WithWaitTimeout(10*time.Millisecond))

	journal := &lifecycle.Journal{}
	err := engine.Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			return []Call{{}}, nil
		},
		OnStatus: lifecycle.Relay(journal),
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}

	if fail := journal.Last().(lifecycle.StatusError); fail.Code != CodeReceiptFailed {
		t.Fatalf("code %q", fail.Code)
	}
}

func TestEngineRetryRebuildsCalls(t *testing.T) {
	var builds, sends int
	backend := &mockBackend{
		sendCall: func(ctx context.Context, call Call) (common.Hash, error) {
			sends++
			if sends == 1 {
				return common.Hash{}, errors.New("underpriced")
			}
			return common.HexToHash("0x0c"), nil
		},
		transactionReceipt: func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
			return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}, nil
		},
	}

	engine := testEngine(backend, WithRetries(1))

	err := engine.Submit(context.Background(), Params{
		Calls: func(ctx context.Context) ([]Call, error) {
			builds++
			return []Call{{}}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if builds != 2 {
		t.Fatalf("calls built %d times, want a fresh build per pass", builds)
	}
	if engine.InFlight() {
		t.Fatal("still in flight after Submit returned")
	}
}

func TestEngineSubmitWithoutCallsFunc(t *testing.T) {
	if err := testEngine(&mockBackend{}).Submit(context.Background(), Params{}); err == nil {
		t.Fatal("expected error")
	}
}
