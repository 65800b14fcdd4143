package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"
)

// The oracle contract is rate limited by a block delay and keeps an allow list
// of updater accounts next to the stored value.
const oracleABI = `[
{"inputs":[{"internalType":"uint256","name":"_delay","type":"uint256"},{"internalType":"bool","name":"_allowUpdateAll","type":"bool"}],"stateMutability":"nonpayable","type":"constructor"},
{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"previousOwner","type":"address"},{"indexed":true,"internalType":"address","name":"newOwner","type":"address"}],"name":"OwnershipTransferred","type":"event"},
{"inputs":[],"name":"data","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[],"name":"delay","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[],"name":"lastUpdate","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[],"name":"nextUpdate","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[],"name":"owner","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[{"internalType":"uint256","name":"_delay","type":"uint256"}],"name":"setDelay","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"bool","name":"_allowUpdateAll","type":"bool"}],"name":"setAllowUpdateAll","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"},{"internalType":"bool","name":"_allowUpdate","type":"bool"}],"name":"setAllowUpdateAccount","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"isUpdateAllowed","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[{"internalType":"string","name":"_data","type":"string"}],"name":"isDataEquals","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function","constant":true},
{"inputs":[{"internalType":"string","name":"_data","type":"string"},{"internalType":"uint256","name":"_lastUpdate","type":"uint256"}],"name":"update","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// oracleUpdateGas caps the update transaction.
// The contract method has a predictable footprint; no estimation is done here.
const oracleUpdateGas = 2000000

// Oracle is the bound single-value oracle contract.
type Oracle struct {
	client   *Client
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// Oracle binds the oracle contract at the given address.
func (c *Client) Oracle(address string) (*Oracle, error) {
	parsed, err := abi.JSON(strings.NewReader(oracleABI))
	if err != nil {
		return nil, err
	}
	at := common.HexToAddress(address)
	return &Oracle{
		client:   c,
		address:  at,
		abi:      parsed,
		contract: bind.NewBoundContract(at, parsed, c.eth, c.eth, c.eth),
	}, nil
}

// Sender is the address the update transactions are signed with.
func (o *Oracle) Sender() common.Address {
	return o.client.account.address
}

func (o *Oracle) BlockNumber(ctx context.Context) (uint64, error) {
	return o.client.eth.BlockNumber(ctx)
}

func (o *Oracle) LastUpdate(ctx context.Context) (*big.Int, error) {
	return o.callInt(ctx, "lastUpdate")
}

func (o *Oracle) NextUpdate(ctx context.Context) (*big.Int, error) {
	return o.callInt(ctx, "nextUpdate")
}

func (o *Oracle) IsDataEquals(ctx context.Context, data string) (bool, error) {
	return o.callBool(ctx, "isDataEquals", data)
}

func (o *Oracle) IsUpdateAllowed(ctx context.Context, account common.Address) (bool, error) {
	return o.callBool(ctx, "isUpdateAllowed", account)
}

// Update signs the update transaction locally and broadcasts it.
// lastUpdate is echoed back so the contract can reject a stale submission.
// The call returns on broadcast, it does not wait for the transaction to mine.
func (o *Oracle) Update(ctx context.Context, data string, lastUpdate *big.Int) error {
	input, err := o.abi.Pack("update", data, lastUpdate)
	if err != nil {
		return fmt.Errorf("could not pack update: %w", err)
	}
	nonce, err := o.client.eth.PendingNonceAt(ctx, o.client.account.address)
	if err != nil {
		return err
	}
	gasPrice, err := o.client.eth.SuggestGasPrice(ctx)
	if err != nil {
		return err
	}
	tx := types.NewTransaction(nonce, o.address, new(big.Int), oracleUpdateGas, gasPrice, input)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(o.client.chainID), o.client.account.key)
	if err != nil {
		return err
	}
	if err := o.client.eth.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("could not send update: %w", err)
	}
	log.Info().
		Str("tx", signed.Hash().Hex()).
		Str("contract", o.address.Hex()).
		Msg("oracle update sent")
	return nil
}

func (o *Oracle) callInt(ctx context.Context, method string) (*big.Int, error) {
	var out []interface{}
	if err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return nil, fmt.Errorf("could not read %q: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (o *Oracle) callBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	var out []interface{}
	if err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return false, fmt.Errorf("could not read %q: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
