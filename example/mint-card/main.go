package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mintkit/mintkit-go/lifecycle"
	"github.com/mintkit/mintkit-go/mintcard"
	"github.com/mintkit/mintkit-go/txflow"
)

// memBackend confirms every call after two polls, like a fast devnet.
type memBackend struct {
	mu    sync.Mutex
	polls map[common.Hash]int
}

func (b *memBackend) SendCall(ctx context.Context, call txflow.Call) (common.Hash, error) {
	return crypto.Keccak256Hash(call.Data), nil
}

func (b *memBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.polls[hash]++
	if b.polls[hash] < 2 {
		return nil, txflow.ErrReceiptNotFound
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash, BlockNumber: big.NewInt(1)}, nil
}

func main() {
	taker := common.HexToAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72")
	contract := common.HexToAddress("0x36Af1F1aA4B9c07eB0f8a94d9177BC5908Dc1Cf2")

	connected := false
	accounts := mintcard.AccountProviderFunc(func() mintcard.AccountState {
		if !connected {
			return mintcard.AccountState{}
		}
		return mintcard.AccountState{Address: taker}
	})

	contexts := mintcard.StaticContext(mintcard.MintContext{
		ContractAddress:  contract,
		TokenID:          big.NewInt(42),
		Quantity:         1,
		IsEligibleToMint: true,
		BuildTransaction: mintcard.ERC721MintCalls(big.NewInt(10_000_000_000_000)),
	})

	journal := &lifecycle.Journal{}
	engine := txflow.NewEngine(&memBackend{polls: map[common.Hash]int{}},
		txflow.WithPollInterval(100*time.Millisecond),
		txflow.WithWaitTimeout(5*time.Second))

	card := mintcard.NewCard(accounts, contexts, journal,
		mintcard.WithEngine(engine),
		mintcard.WithLabel("Mint #42"))

	fmt.Println("before connect:", card.View().State)

	connected = true
	view := card.View()
	fmt.Printf("after connect: %s, label %q\n", view.State, view.Label)

	if err := card.Mint(context.Background()); err != nil {
		log.Fatalln("mint failed:", err)
	}

	for _, s := range journal.Statuses() {
		fmt.Println("status:", s.StatusName())
	}

	success := journal.Last().(lifecycle.StatusSuccess)
	fmt.Println("minted in tx:", success.Receipts[0].TxHash)
}
