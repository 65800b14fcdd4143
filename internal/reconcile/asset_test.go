package reconcile

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bondappetit/woodpecker/client/wisewolves"
)

func signed(data string) wisewolves.SignedData {
	return wisewolves.SignedData{Data: data, Signature: "sig"}
}

func TestMoneyRecords(t *testing.T) {
	records := MoneyRecords([]wisewolves.MoneyAmount{
		{Currency: "USD", Amount: 100, SignedData: signed("a|b|1700000000")},
	}, []string{"USD"}, nil)

	assert.Len(t, records, 1)
	assert.NoError(t, records[0].Err)
	assert.Equal(t, Asset{
		ID:             "USD",
		Amount:         "100000000",
		Price:          "1000000",
		UpdatedAt:      1700000000,
		ProofData:      "a|b|1700000000",
		ProofSignature: "sig",
	}, records[0].Asset)
}

func TestMoneyRecordsBadTimestamp(t *testing.T) {
	records := MoneyRecords([]wisewolves.MoneyAmount{
		{Currency: "USD", Amount: 100, SignedData: signed("a|b|oops")},
	}, []string{"USD"}, nil)

	// the record is retained with a diagnostic, not dropped
	assert.Len(t, records, 1)
	assert.Error(t, records[0].Err)
	assert.Equal(t, int64(0), records[0].Asset.UpdatedAt)
	assert.Equal(t, "100000000", records[0].Asset.Amount)
}

func TestMoneyRecordsFilters(t *testing.T) {
	money := []wisewolves.MoneyAmount{
		{Currency: "USD", Amount: 100, SignedData: signed("a|b|1700000000")},
		{Currency: "EUR", Amount: 50, SignedData: signed("a|b|1700000000")},
	}

	assert.Len(t, MoneyRecords(money, []string{"USD"}, nil), 1)
	assert.Empty(t, MoneyRecords(money, []string{"USD"}, []string{"USD"}))
	// EUR has no configured rate even when allowed
	assert.Len(t, MoneyRecords(money, []string{"USD", "EUR"}, nil), 1)
}

func bond(isin string, amount, baseValue float64) wisewolves.Position {
	return wisewolves.Position{
		ISIN:       isin,
		AssetType:  wisewolves.Bond,
		Currency:   "USD",
		Amount:     amount,
		BaseValue:  baseValue,
		SignedData: signed("a|b|1700000001"),
	}
}

func TestBondRecords(t *testing.T) {
	records := BondRecords([]wisewolves.Position{bond("XS123", 10, 980.5)}, nil)

	assert.Len(t, records, 1)
	assert.NoError(t, records[0].Err)
	assert.Equal(t, Asset{
		ID:             "XS123",
		Amount:         "10",
		Price:          "980500000",
		UpdatedAt:      1700000001,
		ProofData:      "a|b|1700000001",
		ProofSignature: "sig",
	}, records[0].Asset)
}

func TestBondRecordsFilters(t *testing.T) {
	equity := bond("XS200", 10, 100)
	equity.AssetType = wisewolves.Equity
	foreign := bond("XS300", 10, 100)
	foreign.Currency = "EUR"

	portfolio := []wisewolves.Position{
		bond("XS123", 10, 100),
		bond("XS124", 0, 100),
		bond("XS125", 10, 0),
		bond("XS126", -1, 100),
		equity,
		foreign,
		bond("XS127", 10, 100),
	}

	records := BondRecords(portfolio, []string{"XS127"})
	assert.Len(t, records, 1)
	assert.Equal(t, "XS123", records[0].Asset.ID)
}

func TestBondRecordsBadTimestamp(t *testing.T) {
	b := bond("XS123", 10, 100)
	b.SignedData = signed("no-timestamp")

	records := BondRecords([]wisewolves.Position{b}, nil)
	assert.Len(t, records, 1)
	assert.Error(t, records[0].Err)
	assert.Equal(t, int64(0), records[0].Asset.UpdatedAt)
}

func TestRemovals(t *testing.T) {
	onchain := []OnChainAsset{
		{ID: "USD", Amount: big.NewInt(1), Price: big.NewInt(1)},
		{ID: "XS123", Amount: big.NewInt(1), Price: big.NewInt(1)},
	}
	desired := []Record{{Asset: Asset{ID: "USD"}}}

	remove := Removals(onchain, desired)
	assert.Len(t, remove, 1)
	assert.Equal(t, "XS123", remove[0].ID)
}

func TestRemovalsKeepsInvalidRecords(t *testing.T) {
	onchain := []OnChainAsset{{ID: "USD"}}
	// an invalid record still counts as desired for the diff
	desired := []Record{{Asset: Asset{ID: "USD"}, Err: assert.AnError}}

	assert.Empty(t, Removals(onchain, desired))
}
