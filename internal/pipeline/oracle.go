package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/bondappetit/woodpecker/internal/api"
	"github.com/bondappetit/woodpecker/internal/chain"
	"github.com/bondappetit/woodpecker/internal/metrics"
)

var ErrAccessDenied = errors.New("oracle update: access denied")

// Oracle is the on-chain surface the oracleUpdate stage drives.
type Oracle interface {
	Sender() common.Address
	BlockNumber(ctx context.Context) (uint64, error)
	LastUpdate(ctx context.Context) (*big.Int, error)
	NextUpdate(ctx context.Context) (*big.Int, error)
	IsDataEquals(ctx context.Context, data string) (bool, error)
	IsUpdateAllowed(ctx context.Context, account common.Address) (bool, error)
	Update(ctx context.Context, data string, lastUpdate *big.Int) error
}

// OpenOracle connects the oracleUpdate stage to its contract.
// Swapped out in tests.
var OpenOracle = func(ctx context.Context, provider, from, contract string) (Oracle, error) {
	client, err := chain.Dial(ctx, provider, from, 0)
	if err != nil {
		return nil, err
	}
	return client.Oracle(contract)
}

// OracleUpdateOptions configure the oracleUpdate stage.
type OracleUpdateOptions struct {
	// Provider is the blockchain node endpoint.
	Provider string `json:"provider"`
	// From is the private key signing the update transaction.
	From string `json:"from"`
	// Contract is the oracle contract address.
	Contract string `json:"contract"`
}

// OracleUpdate conditionally pushes the incoming value into the oracle contract.
// The update is skipped while the contract's block delay has not elapsed or when
// the value equals what is already stored; in both cases the input passes through.
// An unauthorized sender fails the run. On success the original input is
// forwarded once the signed transaction is broadcast.
func OracleUpdate(options json.RawMessage, next api.Handler) (api.Handler, error) {
	var opts OracleUpdateOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, err
	}
	if opts.Provider == "" || opts.From == "" || opts.Contract == "" {
		return nil, fmt.Errorf("missing provider, from or contract")
	}
	return func(ctx context.Context, data interface{}) error {
		oracle, err := OpenOracle(ctx, opts.Provider, opts.From, opts.Contract)
		if err != nil {
			return err
		}
		current, err := oracle.BlockNumber(ctx)
		if err != nil {
			return err
		}
		lastUpdate, err := oracle.LastUpdate(ctx)
		if err != nil {
			return err
		}
		nextUpdate, err := oracle.NextUpdate(ctx)
		if err != nil {
			return err
		}
		if new(big.Int).SetUint64(current).Cmp(nextUpdate) < 0 {
			log.Debug().
				Uint64("block", current).
				Str("next-update", nextUpdate.String()).
				Msg("oracle update throttled")
			return next(ctx, data)
		}
		newData := stringify(data)
		equals, err := oracle.IsDataEquals(ctx, newData)
		if err != nil {
			return err
		}
		if equals {
			log.Debug().Str("contract", opts.Contract).Msg("oracle data unchanged")
			return next(ctx, data)
		}
		allowed, err := oracle.IsUpdateAllowed(ctx, oracle.Sender())
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w for %s", ErrAccessDenied, oracle.Sender().Hex())
		}
		if err := oracle.Update(ctx, newData, lastUpdate); err != nil {
			return err
		}
		metrics.Observer.Transactions.WithLabelValues("oracle_update").Inc()
		return next(ctx, data)
	}, nil
}

func stringify(data interface{}) string {
	if s, ok := data.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", data)
}
