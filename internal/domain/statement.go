// Package domain defines the canonical financial statement model produced
// by the extraction pipeline. The whole value graph is built once per
// extraction, normalized in one pass, and treated as read-only afterwards;
// remapping and export always work on derived copies.
package domain

// StatementMetadata describes the statement document itself. Every field is
// nullable; statement_date doubles as the fallback anchor for holdings that
// carry no date of their own.
type StatementMetadata struct {
	StatementDate        *string `json:"statement_date"`
	ReportingPeriodStart *string `json:"reporting_period_start"`
	ReportingPeriodEnd   *string `json:"reporting_period_end"`
	StatementIssuer      *string `json:"statement_issuer"`
	StatementFrequency   *string `json:"statement_frequency"`
	BaseCurrency         *string `json:"base_currency"`
	StatementDescription *string `json:"statement_description"`
}

// AccountInformation holds the identifiers and holder details printed in a
// statement's account header. Purely descriptive; no invariants beyond
// nullability.
type AccountInformation struct {
	AccountID           *string `json:"account_id"`
	AccountType         *string `json:"account_type"`
	PrimaryHolderName   *string `json:"primary_holder_name"`
	PrimaryHolderID     *string `json:"primary_holder_id"`
	SecondaryHolderName *string `json:"secondary_holder_name"`
	SecondaryHolderID   *string `json:"secondary_holder_id"`
	ThirdHolderName     *string `json:"third_holder_name"`
	ThirdHolderID       *string `json:"third_holder_id"`
	AdvisoryMandate     *string `json:"advisory_mandate"`
	RelationshipManager *string `json:"relationship_manager"`
	BaseCurrency        *string `json:"base_currency"`
	CustodianName       *string `json:"custodian_name"`
	CustodianID         *string `json:"custodian_id"`
	BankName            *string `json:"bank_name"`
	BankAccountID       *string `json:"bank_account_id"`
	BrokerCode          *string `json:"broker_code"`
}

// Holding is one position row. After canonicalization every monetary and
// quantity field that is present is non-negative, and at least one of
// security_id, security_name, quantity, market_value is populated;
// rows with none of those are placeholders and are dropped.
type Holding struct {
	SecurityID         *string  `json:"security_id"`
	SecurityName       *string  `json:"security_name"`
	SecurityType       *string  `json:"security_type"`
	Issuer             *string  `json:"issuer"`
	Quantity           *float64 `json:"quantity"`
	Price              *float64 `json:"price"`
	MarketValue        *float64 `json:"market_value"`
	AverageCostPerUnit *float64 `json:"average_cost_per_unit"`
	TotalCostValue     *float64 `json:"total_cost_value"`
	Currency           *string  `json:"currency"`
	UnrealizedGainLoss *float64 `json:"unrealized_gain_loss"`
	InvestedValue      *float64 `json:"invested_value"`
	CommittedValue     *float64 `json:"committed_value"`
	DrawndownValue     *float64 `json:"drawndown_value"`
	CapitalReturned    *float64 `json:"capital_returned"`
	IncomeDistributed  *float64 `json:"income_distributed"`
	HoldingDate        *string  `json:"holding_date"`
	PriceDate          *string  `json:"price_date"`
}

// Transaction is one settled movement. Sign conventions from the source
// document are discarded during canonicalization; direction, if needed,
// must be reconstructed from TransactionType.
type Transaction struct {
	TransactionDate        *string  `json:"transaction_date"`
	TransactionType        *string  `json:"transaction_type"`
	SecurityID             *string  `json:"security_id"`
	SecurityName           *string  `json:"security_name"`
	SecurityType           *string  `json:"security_type"`
	Quantity               *float64 `json:"quantity"`
	Price                  *float64 `json:"price"`
	NetAmount              *float64 `json:"net_amount"`
	GrossAmount            *float64 `json:"gross_amount"`
	Currency               *string  `json:"currency"`
	Counterparty           *string  `json:"counterparty"`
	TransactionRef         *string  `json:"transaction_ref"`
	SettlementDate         *string  `json:"settlement_date"`
	TransactionDescription *string  `json:"transaction_description"`
}

// Order is an unsettled order placement. Only emitted when the statement
// carries explicit order-placement evidence.
type Order struct {
	OrderDate        *string  `json:"order_date"`
	OrderTime        *string  `json:"order_time"`
	TradeDate        *string  `json:"trade_date"`
	TradeTime        *string  `json:"trade_time"`
	OrderRef         *string  `json:"order_ref"`
	TradeRef         *string  `json:"trade_ref"`
	TransactionType  *string  `json:"transaction_type"`
	SecurityID       *string  `json:"security_id"`
	SecurityName     *string  `json:"security_name"`
	SecurityType     *string  `json:"security_type"`
	Quantity         *float64 `json:"quantity"`
	Price            *float64 `json:"price"`
	NetAmount        *float64 `json:"net_amount"`
	GrossAmount      *float64 `json:"gross_amount"`
	Currency         *string  `json:"currency"`
	Counterparty     *string  `json:"counterparty"`
	OrderDescription *string  `json:"order_description"`
}

// Account groups one account header with its holdings, transactions and
// orders. Sequence order is stable for export but carries no meaning.
type Account struct {
	AccountInformation *AccountInformation `json:"account_information"`
	Holdings           []Holding           `json:"holdings"`
	Transactions       []Transaction       `json:"transactions"`
	Orders             []Order             `json:"orders"`
}

// FinancialSecurityStatement is the root value the pipeline produces.
type FinancialSecurityStatement struct {
	StatementMetadata StatementMetadata `json:"statement_metadata"`
	Accounts          []Account         `json:"accounts"`
}
