package wisewolves

// AssetType tags a portfolio position.
type AssetType int

const (
	Bond              AssetType = 1
	Equity            AssetType = 2
	DepositaryReceipt AssetType = 99
)

// AuthKey is the outcome of the first login step.
type AuthKey struct {
	UserKey     string `json:"userKey"`
	NeedToSetup bool   `json:"needToSetup"`
}

// Session carries the bearer token for the reads of one run.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignedData is a brokerage-signed payload proving a reported value.
// Data is a pipe-delimited string; its third field is the update timestamp.
type SignedData struct {
	Data      string `json:"data"`
	Signature string `json:"signature"`
}

// MoneyAmount is one cash position.
type MoneyAmount struct {
	Currency   string     `json:"currency"`
	Amount     float64    `json:"amount"`
	SignedData SignedData `json:"signedData"`
}

// CrossRate is an indicative exchange rate between two currencies.
type CrossRate struct {
	CurrencyFrom string  `json:"currencyFrom"`
	CurrencyTo   string  `json:"currencyTo"`
	Rate         float64 `json:"rate"`
	RatePercent  float64 `json:"ratePercent"`
}

// Client is one brokerage client summary from the general info response.
type Client struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	BalanceTotals    []MoneyAmount `json:"balanceTotals"`
	ProfitTotals     []MoneyAmount `json:"profitTotals"`
	ProfitPercent    float64       `json:"profitPercent"`
	MoneyTotals      []MoneyAmount `json:"moneyTotals"`
	MoneyDetails     []MoneyAmount `json:"moneyDetails"`
	PortfolioTotals  []MoneyAmount `json:"portfolioTotals"`
	PortfolioDetails []MoneyAmount `json:"portfolioDetails"`
}

// GeneralInfo is the account-wide brokerage overview.
type GeneralInfo struct {
	Date                        string      `json:"date"`
	UserName                    string      `json:"userName"`
	Clients                     []Client    `json:"clients"`
	IndicativeExchangeCrossRate []CrossRate `json:"indicativeExchangeCrossRates"`
	SwitchCurrencies            []string    `json:"switchCurrencies"`
}

// Position is one security position of a client portfolio.
type Position struct {
	AssetID            string        `json:"assetId"`
	ISIN               string        `json:"isin"`
	AssetName          string        `json:"assetName"`
	Ticker             string        `json:"ticker"`
	Amount             float64       `json:"amount"`
	BaseValue          float64       `json:"baseValue"`
	CurrentPrice       float64       `json:"currentPrice"`
	CurrentValue       float64       `json:"currentValue"`
	Profit             float64       `json:"profit"`
	PurchasePrice      float64       `json:"purchasePrice"`
	DeltaPricePercent  float64       `json:"deltaPricePercent"`
	DeltaPriceAbsolute float64       `json:"deltaPriceAbsolute"`
	CouponPaymentYear  float64       `json:"couponPaymentYear"`
	Issuer             string        `json:"issuer"`
	AssetType          AssetType     `json:"assetType"`
	AssetTypeName      string        `json:"assetTypeName"`
	Country            string        `json:"country"`
	Currency           string        `json:"currency"`
	RedemptionDate     string        `json:"redemptionDate"`
	CurrentValueTotals []MoneyAmount `json:"currentValueTotals"`
	SignedData         SignedData    `json:"signedData"`
}

// ClientData is the detailed, signed view of one client.
type ClientData struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	BalanceTotals    []MoneyAmount `json:"balanceTotals"`
	ProfitTotals     []MoneyAmount `json:"profitTotals"`
	ProfitPercent    float64       `json:"profitPercent"`
	MoneyTotals      []MoneyAmount `json:"moneyTotals"`
	MoneyDetails     []MoneyAmount `json:"moneyDetails"`
	PortfolioTotals  []MoneyAmount `json:"portfolioTotals"`
	PortfolioDetails []MoneyAmount `json:"portfolioDetails"`
	Portfolio        []Position    `json:"portfolio"`
}
