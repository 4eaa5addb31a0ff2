package txflow

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mintkit/mintkit-go/lifecycle"
)

// Call is a single contract call to submit on-chain.
type Call struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// PaymasterService points at a sponsorship endpoint for wallets that
// support sponsored submission.
type PaymasterService struct {
	URL string
}

// Capabilities are optional submission hints passed through to the
// executing wallet. The reference Engine ignores them.
type Capabilities struct {
	PaymasterService *PaymasterService
}

// CallsFunc supplies the calls to submit. It is invoked when the
// execution layer needs transaction data and may be invoked again on
// retry, so it must read its inputs fresh each time.
type CallsFunc func(ctx context.Context) ([]Call, error)

// Params is the contract between a control and an execution subsystem:
// where to get the calls, and where to report every status transition.
type Params struct {
	Calls        CallsFunc
	Capabilities *Capabilities
	OnStatus     func(lifecycle.Status)
}
