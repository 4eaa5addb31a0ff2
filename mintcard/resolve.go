package mintcard

import "fmt"

// RenderState says what the control should present.
type RenderState int

const (
	// RenderNothing: no transaction builder is available, the control is
	// inert. Also covers a context that was not loaded yet.
	RenderNothing RenderState = iota
	// RenderConnectWallet: a builder exists but no wallet is connected,
	// show the wallet-connect affordance instead.
	RenderConnectWallet
	// RenderIneligible: connected but not allowed to mint, show a
	// disabled informational label.
	RenderIneligible
	// RenderMintButton: show the interactive mint affordance.
	RenderMintButton
)

func (s RenderState) String() string {
	switch s {
	case RenderNothing:
		return "nothing"
	case RenderConnectWallet:
		return "connectWallet"
	case RenderIneligible:
		return "ineligible"
	case RenderMintButton:
		return "mintButton"
	}
	return fmt.Sprintf("%d", int(s))
}

const (
	// DefaultLabel is shown on the mint affordance when the embedder
	// supplies no label of its own.
	DefaultLabel = "Mint"
	// IneligibleLabel is the fixed text of the RenderIneligible state.
	IneligibleLabel = "Minting not available"
)

// Resolve computes the render state from the two snapshots. Pure, cheap,
// safe to call on every render.
//
// The connect prompt takes precedence over eligibility: with no wallet
// connected we cannot know whether the taker would be eligible.
func Resolve(acc AccountState, mctx MintContext) RenderState {
	switch {
	case mctx.BuildTransaction == nil:
		return RenderNothing
	case !acc.Connected():
		return RenderConnectWallet
	case !mctx.IsEligibleToMint:
		return RenderIneligible
	default:
		return RenderMintButton
	}
}

// View is the fully resolved presentation of the control for one render
// pass. Derived, never stored.
type View struct {
	State    RenderState
	Label    string
	Disabled bool
}
