package mintcard

import (
	"context"
	"errors"

	"github.com/mintkit/mintkit-go/lifecycle"
	"github.com/mintkit/mintkit-go/txflow"
)

var (
	ErrNoBuilder    = errors.New("mint context has no transaction builder")
	ErrNotConnected = errors.New("no wallet connected")
	ErrNoEngine     = errors.New("no engine attached to card")
)

// Card is the mint control. It owns no state of its own beyond its
// props: account and context are re-read from the providers on every
// operation, and every status of a submission is forwarded to the sink.
type Card struct {
	// Label overrides the text of the mint affordance. Empty means
	// DefaultLabel.
	Label string
	// Disabled force-disables the mint affordance.
	Disabled bool

	accounts AccountProvider
	contexts ContextProvider
	sink     lifecycle.Sink

	engine    *txflow.Engine
	paymaster string
}

type CardOption func(*Card)

func WithLabel(label string) CardOption {
	return func(c *Card) { c.Label = label }
}

func WithDisabled(disabled bool) CardOption {
	return func(c *Card) { c.Disabled = disabled }
}

// WithEngine attaches a reference engine; the card then reports busy
// while a submission is in flight and can run Mint itself.
func WithEngine(e *txflow.Engine) CardOption {
	return func(c *Card) { c.engine = e }
}

// WithPaymaster passes a sponsorship endpoint through to the execution
// subsystem's capabilities.
func WithPaymaster(url string) CardOption {
	return func(c *Card) { c.paymaster = url }
}

func NewCard(accounts AccountProvider, contexts ContextProvider, sink lifecycle.Sink, opts ...CardOption) *Card {
	c := &Card{
		accounts: accounts,
		contexts: contexts,
		sink:     sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View resolves what the control presents right now.
func (c *Card) View() View {
	acc := c.accounts.AccountState()
	mctx := c.contexts.MintContext()

	v := View{State: Resolve(acc, mctx)}
	switch v.State {
	case RenderIneligible:
		v.Label = IneligibleLabel
		v.Disabled = true
	case RenderMintButton:
		v.Label = c.Label
		if v.Label == "" {
			v.Label = DefaultLabel
		}
		v.Disabled = c.Disabled || (c.engine != nil && c.engine.InFlight())
	}
	return v
}

// Calls is the calls callback of the execution boundary. Account and
// context are re-read on every invocation so a retry observes the
// latest taker address and offer. Builder errors are returned as-is.
func (c *Card) Calls(ctx context.Context) ([]txflow.Call, error) {
	acc := c.accounts.AccountState()
	mctx := c.contexts.MintContext()

	if mctx.BuildTransaction == nil {
		return nil, ErrNoBuilder
	}
	if !acc.Connected() {
		return nil, ErrNotConnected
	}

	return mctx.BuildTransaction(ctx, &MintRequest{
		Contract: mctx.ContractAddress,
		TokenID:  mctx.TokenID,
		Taker:    acc.Address,
		Quantity: mctx.Quantity,
	})
}

// Transaction assembles the value handed to an execution subsystem:
// the calls builder, the pass-through status relay, and the optional
// paymaster capability.
func (c *Card) Transaction() txflow.Params {
	p := txflow.Params{
		Calls:    c.Calls,
		OnStatus: lifecycle.Relay(c.sink),
	}
	if c.paymaster != "" {
		p.Capabilities = &txflow.Capabilities{
			PaymasterService: &txflow.PaymasterService{URL: c.paymaster},
		}
	}
	return p
}

// Mint runs one submission through the attached engine.
func (c *Card) Mint(ctx context.Context) error {
	if c.engine == nil {
		return ErrNoEngine
	}
	return c.engine.Submit(ctx, c.Transaction())
}
