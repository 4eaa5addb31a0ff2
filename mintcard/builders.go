package mintcard

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/mintkit/mintkit-go/txflow"
)

// Minimal mint-only fragments of the OpenZeppelin token interfaces.
//
//	mint(address,uint256)               → 0x40c10f19
//	mint(address,uint256,uint256,bytes) → 0x731133e9
const (
	erc721MintJSON  = `[{"name":"mint","type":"function","stateMutability":"payable","inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]}]`
	erc1155MintJSON = `[{"name":"mint","type":"function","stateMutability":"payable","inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]}]`
)

var (
	erc721ABI  abi.ABI
	erc1155ABI abi.ABI
)

func init() {
	var err error

	erc721ABI, err = abi.JSON(strings.NewReader(erc721MintJSON))
	if err != nil {
		panic(err)
	}
	erc1155ABI, err = abi.JSON(strings.NewReader(erc1155MintJSON))
	if err != nil {
		panic(err)
	}
}

// ERC721MintCalls returns a builder producing a single
// mint(to, tokenId) call against the context's contract, with value
// attached as the mint fee. Install it as MintContext.BuildTransaction
// when the target contract follows the common mintable ERC-721 shape.
func ERC721MintCalls(value *big.Int) BuildTransactionFunc {
	return func(ctx context.Context, req *MintRequest) ([]txflow.Call, error) {
		data, err := erc721ABI.Pack("mint", req.Taker, tokenID(req))
		if err != nil {
			return nil, fmt.Errorf("pack erc721 mint: %w", err)
		}

		return []txflow.Call{{To: req.Contract, Value: value, Data: data}}, nil
	}
}

// ERC1155MintCalls is the ERC-1155 counterpart of ERC721MintCalls,
// minting req.Quantity editions of the context's token id.
func ERC1155MintCalls(value *big.Int) BuildTransactionFunc {
	return func(ctx context.Context, req *MintRequest) ([]txflow.Call, error) {
		amount := new(big.Int).SetUint64(req.Quantity)

		data, err := erc1155ABI.Pack("mint", req.Taker, tokenID(req), amount, []byte{})
		if err != nil {
			return nil, fmt.Errorf("pack erc1155 mint: %w", err)
		}

		return []txflow.Call{{To: req.Contract, Value: value, Data: data}}, nil
	}
}

func tokenID(req *MintRequest) *big.Int {
	if req.TokenID == nil {
		return big.NewInt(0)
	}
	return req.TokenID
}
