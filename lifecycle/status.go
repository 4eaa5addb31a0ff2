package lifecycle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

// Status is a single transaction lifecycle transition reported by an
// execution layer. The set of kinds is closed; consumers switch on the
// concrete type, or on StatusName when only the tag matters.
type Status interface {
	StatusName() string
}

// Meta carries the fields shared by every status kind.
type Meta struct {
	// AttemptID correlates all statuses emitted by one submission flow.
	AttemptID uuid.UUID
}

// StatusInit is the resting state before any submission was started.
type StatusInit struct {
	Meta
}

func (StatusInit) StatusName() string { return "init" }

// StatusBuildingTransaction is emitted while the calls builder runs.
type StatusBuildingTransaction struct {
	Meta
}

func (StatusBuildingTransaction) StatusName() string { return "buildingTransaction" }

// StatusTransactionPending is emitted once the first call was broadcast
// and the flow is waiting for on-chain inclusion.
type StatusTransactionPending struct {
	Meta
}

func (StatusTransactionPending) StatusName() string { return "transactionPending" }

// StatusTransactionLegacyExecuted reports the hashes of all broadcast
// transactions, in submission order.
type StatusTransactionLegacyExecuted struct {
	Meta
	TransactionHashes []common.Hash
}

func (StatusTransactionLegacyExecuted) StatusName() string { return "transactionLegacyExecuted" }

// StatusSuccess reports the receipts of all confirmed transactions, in
// submission order.
type StatusSuccess struct {
	Meta
	Receipts []*types.Receipt
}

func (StatusSuccess) StatusName() string { return "success" }

// StatusError reports a failed flow. Code is a stable machine-readable
// tag, Message is display text, Err is the underlying cause.
type StatusError struct {
	Meta
	Code    string
	Message string
	Err     error
}

func (StatusError) StatusName() string { return "error" }

func (s StatusError) Error() string {
	if s.Err != nil {
		return s.Message + ": " + s.Err.Error()
	}
	return s.Message
}

func (s StatusError) Unwrap() error { return s.Err }
