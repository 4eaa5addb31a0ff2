package mintcard

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mintkit/mintkit-go/txflow"
)

// BuildTransactionFunc builds the call(s) that mint to req.Taker. It may
// return one call or a sequence; errors are not handled here, they
// propagate to the execution subsystem which owns retry policy.
type BuildTransactionFunc func(ctx context.Context, req *MintRequest) ([]txflow.Call, error)

// MintContext is a read-only snapshot of the mint offer the control
// presents. A nil BuildTransaction means minting is not available at
// all and the control renders nothing.
type MintContext struct {
	ContractAddress  common.Address
	TokenID          *big.Int
	Quantity         uint64
	IsEligibleToMint bool
	BuildTransaction BuildTransactionFunc
}

// ContextProvider supplies the current MintContext, re-read per render
// and per calls build.
type ContextProvider interface {
	MintContext() MintContext
}

// ContextProviderFunc adapts a plain function to ContextProvider.
type ContextProviderFunc func() MintContext

func (f ContextProviderFunc) MintContext() MintContext { return f() }

// StaticContext is a ContextProvider that always reports mctx.
func StaticContext(mctx MintContext) ContextProvider {
	return ContextProviderFunc(func() MintContext {
		return mctx
	})
}

// MintRequest is the payload handed to a BuildTransactionFunc. It is
// constructed fresh on every build from the latest account and context
// snapshots; Taker is the connected wallet address.
type MintRequest struct {
	Contract common.Address
	TokenID  *big.Int
	Taker    common.Address
	Quantity uint64
}
