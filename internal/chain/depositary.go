package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/internal/reconcile"
)

// RealAssetDepositaryBalanceView contract.
const depositaryABI = `[
{"inputs":[],"name":"assets","outputs":[{"components":[{"internalType":"string","name":"id","type":"string"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"uint256","name":"price","type":"uint256"}],"internalType":"struct RealAssetDepositaryBalanceView.Asset[]","name":"","type":"tuple[]"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"string","name":"id","type":"string"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"uint256","name":"updatedAt","type":"uint256"},{"internalType":"string","name":"proofData","type":"string"},{"internalType":"string","name":"proofSignature","type":"string"}],"name":"put","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"string","name":"id","type":"string"}],"name":"remove","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// Depositary is the bound asset depositary contract.
// It implements reconcile.Depositary.
type Depositary struct {
	client   *Client
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// Depositary binds the depositary contract at the given address.
func (c *Client) Depositary(address string) (*Depositary, error) {
	parsed, err := abi.JSON(strings.NewReader(depositaryABI))
	if err != nil {
		return nil, err
	}
	at := common.HexToAddress(address)
	return &Depositary{
		client:   c,
		address:  at,
		abi:      parsed,
		contract: bind.NewBoundContract(at, parsed, c.eth, c.eth, c.eth),
	}, nil
}

// Assets reads the full on-chain asset list in one call.
func (d *Depositary) Assets(ctx context.Context) ([]reconcile.OnChainAsset, error) {
	var out []interface{}
	err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, "assets")
	if err != nil {
		return nil, fmt.Errorf("could not read assets: %w", err)
	}
	rows := *abi.ConvertType(out[0], new([]struct {
		Id     string
		Amount *big.Int
		Price  *big.Int
	})).(*[]struct {
		Id     string
		Amount *big.Int
		Price  *big.Int
	})
	assets := make([]reconcile.OnChainAsset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, reconcile.OnChainAsset{
			ID:     row.Id,
			Amount: row.Amount,
			Price:  row.Price,
		})
	}
	return assets, nil
}

// Put writes one asset record into the contract.
func (d *Depositary) Put(ctx context.Context, asset reconcile.Asset) error {
	amount, ok := new(big.Int).SetString(asset.Amount, 10)
	if !ok {
		return fmt.Errorf("invalid amount %q for asset %q", asset.Amount, asset.ID)
	}
	price, ok := new(big.Int).SetString(asset.Price, 10)
	if !ok {
		return fmt.Errorf("invalid price %q for asset %q", asset.Price, asset.ID)
	}
	log.Info().Str("asset", asset.ID).Msg("put asset")
	return d.client.submit(ctx, "put", d.address, d.abi, "put",
		asset.ID, amount, price, big.NewInt(asset.UpdatedAt), asset.ProofData, asset.ProofSignature)
}

// Remove deletes one asset record from the contract.
func (d *Depositary) Remove(ctx context.Context, id string) error {
	log.Info().Str("asset", id).Msg("remove asset")
	return d.client.submit(ctx, "remove", d.address, d.abi, "remove", id)
}
