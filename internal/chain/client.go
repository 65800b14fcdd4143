package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/internal/metrics"
)

// Account wraps the single signing key used for all outgoing transactions.
type Account struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewAccount derives the account from a hex encoded private key.
func NewAccount(hexkey string) (Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexkey, "0x"))
	if err != nil {
		return Account{}, fmt.Errorf("invalid sender key: %w", err)
	}
	return Account{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (a Account) Address() common.Address {
	return a.address
}

// Client couples a node connection with the signing account.
// All writes go out from this one account; callers keep submissions strictly
// sequential, which is the only nonce protection in place.
type Client struct {
	eth     *ethclient.Client
	account Account
	chainID *big.Int
	delay   time.Duration
}

// Dial connects to the node and prepares the signing account.
// delay is the settling pause applied after every mined transaction.
func Dial(ctx context.Context, provider, sender string, delay time.Duration) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %q: %w", provider, err)
	}
	account, err := NewAccount(sender)
	if err != nil {
		return nil, err
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read chain id: %w", err)
	}
	return &Client{
		eth:     eth,
		account: account,
		chainID: chainID,
		delay:   delay,
	}, nil
}

func (c *Client) Account() Account {
	return c.account
}

// submit signs and broadcasts one contract write and waits for its receipt.
// Gas price and limit are estimated right before every send,
// since block conditions shift between the serialized writes of one pass.
func (c *Client) submit(ctx context.Context, kind string, to common.Address, contractABI abi.ABI, method string, args ...interface{}) error {
	input, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("could not pack %q: %w", method, err)
	}
	nonce, err := c.eth.PendingNonceAt(ctx, c.account.address)
	if err != nil {
		return err
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return err
	}
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:     c.account.address,
		To:       &to,
		GasPrice: gasPrice,
		Data:     input,
	})
	if err != nil {
		return fmt.Errorf("could not estimate gas for %q: %w", method, err)
	}
	tx := types.NewTransaction(nonce, to, new(big.Int), gas, gasPrice, input)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.account.key)
	if err != nil {
		return err
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("could not send %q: %w", method, err)
	}
	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted", receipt.TxHash.Hex())
	}
	log.Info().
		Str("tx", receipt.TxHash.Hex()).
		Uint64("block", receipt.BlockNumber.Uint64()).
		Uint64("gas", receipt.GasUsed).
		Msg("transaction mined")
	metrics.Observer.Transactions.WithLabelValues(kind).Inc()
	return c.settle(ctx)
}

// settle applies the fixed inter-transaction delay.
func (c *Client) settle(ctx context.Context) error {
	if c.delay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}
