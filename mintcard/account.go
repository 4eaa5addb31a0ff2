package mintcard

import "github.com/ethereum/go-ethereum/common"

// AccountState is a snapshot of the active wallet connection. The zero
// value means no wallet is connected.
type AccountState struct {
	Address common.Address
}

// Connected reports whether a wallet address is present.
func (a AccountState) Connected() bool {
	return a.Address != (common.Address{})
}

// AccountProvider supplies the current wallet connection state. It is
// re-read on every view resolution and every calls build, so connects
// and disconnects are observed without re-wiring the card.
type AccountProvider interface {
	AccountState() AccountState
}

// AccountProviderFunc adapts a plain function to AccountProvider.
type AccountProviderFunc func() AccountState

func (f AccountProviderFunc) AccountState() AccountState { return f() }

// StaticAccount is an AccountProvider that always reports addr.
func StaticAccount(addr common.Address) AccountProvider {
	return AccountProviderFunc(func() AccountState {
		return AccountState{Address: addr}
	})
}
