package reconcile

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bondappetit/woodpecker/client/wisewolves"
)

// decimals is the fixed point scale of on-chain amounts and prices.
const decimals = 6

// ReportingCurrency is the only currency bond positions are reported in.
const ReportingCurrency = "USD"

var scale = decimal.New(1, decimals)

// rates is the fixed conversion table for cash positions,
// one rate per supported currency, applied before the 6 decimal rescale.
var rates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
}

// Asset is one reconciliation-ready record for the depositary contract.
type Asset struct {
	ID             string
	Amount         string
	Price          string
	UpdatedAt      int64
	ProofData      string
	ProofSignature string
}

// Record pairs an asset with its normalization diagnostic.
// A non-nil Err keeps the record in the desired set for diff purposes
// but disqualifies it from the on-chain write.
type Record struct {
	Asset Asset
	Err   error
}

// OnChainAsset is one row of the depositary assets snapshot.
type OnChainAsset struct {
	ID     string
	Amount *big.Int
	Price  *big.Int
}

// updatedAt extracts the update timestamp from the signed payload,
// the third field of the pipe-delimited data string.
func updatedAt(signed wisewolves.SignedData) (int64, error) {
	fields := strings.Split(signed.Data, "|")
	if len(fields) < 3 {
		return 0, fmt.Errorf("invalid updated at %q", signed.Data)
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid updated at %q", signed.Data)
	}
	return ts, nil
}

// MoneyRecords normalizes cash positions into asset records.
// Only currencies from the allowed set with a known rate and not on the deny
// list are kept. Amounts and the currency rate are rescaled to 6 decimals.
// A record with an unparsable timestamp is kept, marked with an error.
func MoneyRecords(money []wisewolves.MoneyAmount, allowed, deny []string) []Record {
	records := make([]Record, 0, len(money))
	for _, m := range money {
		rate, ok := rates[m.Currency]
		if !ok || !contains(allowed, m.Currency) || contains(deny, m.Currency) {
			continue
		}
		record := Record{
			Asset: Asset{
				ID:             m.Currency,
				Amount:         decimal.NewFromFloat(m.Amount).Mul(scale).String(),
				Price:          rate.Mul(scale).String(),
				ProofData:      m.SignedData.Data,
				ProofSignature: m.SignedData.Signature,
			},
		}
		ts, err := updatedAt(m.SignedData)
		if err != nil {
			record.Err = err
		} else {
			record.Asset.UpdatedAt = ts
		}
		records = append(records, record)
	}
	return records
}

// BondRecords normalizes security positions into asset records.
// Only bonds in the reporting currency with strictly positive amount and base
// value and not on the deny list are kept; the id is the ISIN, the amount is
// passed through as reported and the base value is rescaled to 6 decimals.
func BondRecords(portfolio []wisewolves.Position, deny []string) []Record {
	records := make([]Record, 0, len(portfolio))
	for _, p := range portfolio {
		if contains(deny, p.ISIN) ||
			p.AssetType != wisewolves.Bond ||
			p.Currency != ReportingCurrency ||
			p.Amount <= 0 ||
			p.BaseValue <= 0 {
			continue
		}
		record := Record{
			Asset: Asset{
				ID:             p.ISIN,
				Amount:         decimal.NewFromFloat(p.Amount).String(),
				Price:          decimal.NewFromFloat(p.BaseValue).Mul(scale).String(),
				ProofData:      p.SignedData.Data,
				ProofSignature: p.SignedData.Signature,
			},
		}
		ts, err := updatedAt(p.SignedData)
		if err != nil {
			record.Err = err
		} else {
			record.Asset.UpdatedAt = ts
		}
		records = append(records, record)
	}
	return records
}

// Removals returns the on-chain assets whose id is absent from the desired set.
func Removals(onchain []OnChainAsset, desired []Record) []OnChainAsset {
	remove := make([]OnChainAsset, 0)
	for _, asset := range onchain {
		found := false
		for _, record := range desired {
			if record.Asset.ID == asset.ID {
				found = true
				break
			}
		}
		if !found {
			remove = append(remove, asset)
		}
	}
	return remove
}

func contains(set []string, s string) bool {
	for _, entry := range set {
		if entry == s {
			return true
		}
	}
	return false
}
