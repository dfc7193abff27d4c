package pipeline

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-normalizer/internal/domain"
)

// DecodeStatement checks that a parsed JSON value structurally conforms to
// the FinancialSecurityStatement schema and returns the typed value.
// Unknown keys are ignored. On the first non-conforming field it returns a
// *SchemaValidationError carrying the field path; callers must not attempt
// partial use of an invalid document.
func DecodeStatement(raw map[string]interface{}) (*domain.FinancialSecurityStatement, error) {
	metaRaw, ok := raw["statement_metadata"]
	if !ok || metaRaw == nil {
		return nil, &SchemaValidationError{Path: "statement_metadata", Reason: "required field is missing"}
	}
	metaObj, ok := metaRaw.(map[string]interface{})
	if !ok {
		return nil, &SchemaValidationError{Path: "statement_metadata", Reason: fmt.Sprintf("expected object, got %T", metaRaw)}
	}

	meta, err := decodeStatementMetadata(metaObj, "statement_metadata")
	if err != nil {
		return nil, err
	}

	accountsRaw, ok := raw["accounts"]
	if !ok || accountsRaw == nil {
		return nil, &SchemaValidationError{Path: "accounts", Reason: "required field is missing"}
	}
	accountsSlice, ok := accountsRaw.([]interface{})
	if !ok {
		return nil, &SchemaValidationError{Path: "accounts", Reason: fmt.Sprintf("expected array, got %T", accountsRaw)}
	}

	accounts := make([]domain.Account, 0, len(accountsSlice))
	for i, item := range accountsSlice {
		path := fmt.Sprintf("accounts.%d", i)
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, &SchemaValidationError{Path: path, Reason: fmt.Sprintf("expected object, got %T", item)}
		}
		acc, err := decodeAccount(obj, path)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}

	return &domain.FinancialSecurityStatement{
		StatementMetadata: *meta,
		Accounts:          accounts,
	}, nil
}

func decodeStatementMetadata(obj map[string]interface{}, path string) (*domain.StatementMetadata, error) {
	meta := &domain.StatementMetadata{}
	var err error
	if meta.StatementDate, err = optionalString(obj, "statement_date", path); err != nil {
		return nil, err
	}
	if meta.ReportingPeriodStart, err = optionalString(obj, "reporting_period_start", path); err != nil {
		return nil, err
	}
	if meta.ReportingPeriodEnd, err = optionalString(obj, "reporting_period_end", path); err != nil {
		return nil, err
	}
	if meta.StatementIssuer, err = optionalString(obj, "statement_issuer", path); err != nil {
		return nil, err
	}
	if meta.StatementFrequency, err = optionalEnum(obj, "statement_frequency", path, domain.ValidStatementFrequency, domain.StatementFrequencies); err != nil {
		return nil, err
	}
	if meta.BaseCurrency, err = optionalString(obj, "base_currency", path); err != nil {
		return nil, err
	}
	if meta.StatementDescription, err = optionalString(obj, "statement_description", path); err != nil {
		return nil, err
	}
	return meta, nil
}

func decodeAccount(obj map[string]interface{}, path string) (*domain.Account, error) {
	acc := &domain.Account{}

	if infoRaw, ok := obj["account_information"]; ok && infoRaw != nil {
		infoObj, ok := infoRaw.(map[string]interface{})
		if !ok {
			return nil, &SchemaValidationError{Path: path + ".account_information", Reason: fmt.Sprintf("expected object, got %T", infoRaw)}
		}
		info, err := decodeAccountInformation(infoObj, path+".account_information")
		if err != nil {
			return nil, err
		}
		acc.AccountInformation = info
	}

	holdings, err := decodeArray(obj, "holdings", path, decodeHolding)
	if err != nil {
		return nil, err
	}
	acc.Holdings = holdings

	transactions, err := decodeArray(obj, "transactions", path, decodeTransaction)
	if err != nil {
		return nil, err
	}
	acc.Transactions = transactions

	orders, err := decodeArray(obj, "orders", path, decodeOrder)
	if err != nil {
		return nil, err
	}
	acc.Orders = orders

	return acc, nil
}

func decodeAccountInformation(obj map[string]interface{}, path string) (*domain.AccountInformation, error) {
	info := &domain.AccountInformation{}
	fields := []struct {
		key  string
		dest **string
	}{
		{"account_id", &info.AccountID},
		{"account_type", &info.AccountType},
		{"primary_holder_name", &info.PrimaryHolderName},
		{"primary_holder_id", &info.PrimaryHolderID},
		{"secondary_holder_name", &info.SecondaryHolderName},
		{"secondary_holder_id", &info.SecondaryHolderID},
		{"third_holder_name", &info.ThirdHolderName},
		{"third_holder_id", &info.ThirdHolderID},
		{"advisory_mandate", &info.AdvisoryMandate},
		{"relationship_manager", &info.RelationshipManager},
		{"base_currency", &info.BaseCurrency},
		{"custodian_name", &info.CustodianName},
		{"custodian_id", &info.CustodianID},
		{"bank_name", &info.BankName},
		{"bank_account_id", &info.BankAccountID},
		{"broker_code", &info.BrokerCode},
	}
	for _, f := range fields {
		v, err := optionalString(obj, f.key, path)
		if err != nil {
			return nil, err
		}
		*f.dest = v
	}
	return info, nil
}

func decodeHolding(obj map[string]interface{}, path string) (*domain.Holding, error) {
	h := &domain.Holding{}
	var err error
	if h.SecurityID, err = optionalString(obj, "security_id", path); err != nil {
		return nil, err
	}
	if h.SecurityName, err = optionalString(obj, "security_name", path); err != nil {
		return nil, err
	}
	if h.SecurityType, err = optionalEnum(obj, "security_type", path, domain.ValidSecurityType, domain.SecurityTypes); err != nil {
		return nil, err
	}
	if h.Issuer, err = optionalString(obj, "issuer", path); err != nil {
		return nil, err
	}
	numeric := []struct {
		key  string
		dest **float64
	}{
		{"quantity", &h.Quantity},
		{"price", &h.Price},
		{"market_value", &h.MarketValue},
		{"average_cost_per_unit", &h.AverageCostPerUnit},
		{"total_cost_value", &h.TotalCostValue},
		{"unrealized_gain_loss", &h.UnrealizedGainLoss},
		{"invested_value", &h.InvestedValue},
		{"committed_value", &h.CommittedValue},
		{"drawndown_value", &h.DrawndownValue},
		{"capital_returned", &h.CapitalReturned},
		{"income_distributed", &h.IncomeDistributed},
	}
	for _, f := range numeric {
		v, err := optionalFloat(obj, f.key, path)
		if err != nil {
			return nil, err
		}
		*f.dest = v
	}
	if h.Currency, err = optionalString(obj, "currency", path); err != nil {
		return nil, err
	}
	if h.HoldingDate, err = optionalString(obj, "holding_date", path); err != nil {
		return nil, err
	}
	if h.PriceDate, err = optionalString(obj, "price_date", path); err != nil {
		return nil, err
	}
	return h, nil
}

func decodeTransaction(obj map[string]interface{}, path string) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var err error
	if t.TransactionDate, err = optionalString(obj, "transaction_date", path); err != nil {
		return nil, err
	}
	if t.TransactionType, err = optionalEnum(obj, "transaction_type", path, domain.ValidTransactionType, domain.TransactionTypes); err != nil {
		return nil, err
	}
	if t.SecurityID, err = optionalString(obj, "security_id", path); err != nil {
		return nil, err
	}
	if t.SecurityName, err = optionalString(obj, "security_name", path); err != nil {
		return nil, err
	}
	if t.SecurityType, err = optionalEnum(obj, "security_type", path, domain.ValidSecurityType, domain.SecurityTypes); err != nil {
		return nil, err
	}
	if t.Quantity, err = optionalFloat(obj, "quantity", path); err != nil {
		return nil, err
	}
	if t.Price, err = optionalFloat(obj, "price", path); err != nil {
		return nil, err
	}
	if t.NetAmount, err = optionalFloat(obj, "net_amount", path); err != nil {
		return nil, err
	}
	if t.GrossAmount, err = optionalFloat(obj, "gross_amount", path); err != nil {
		return nil, err
	}
	if t.Currency, err = optionalString(obj, "currency", path); err != nil {
		return nil, err
	}
	if t.Counterparty, err = optionalString(obj, "counterparty", path); err != nil {
		return nil, err
	}
	if t.TransactionRef, err = optionalString(obj, "transaction_ref", path); err != nil {
		return nil, err
	}
	if t.SettlementDate, err = optionalString(obj, "settlement_date", path); err != nil {
		return nil, err
	}
	if t.TransactionDescription, err = optionalString(obj, "transaction_description", path); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeOrder(obj map[string]interface{}, path string) (*domain.Order, error) {
	o := &domain.Order{}
	var err error
	stringFields := []struct {
		key  string
		dest **string
	}{
		{"order_date", &o.OrderDate},
		{"order_time", &o.OrderTime},
		{"trade_date", &o.TradeDate},
		{"trade_time", &o.TradeTime},
		{"order_ref", &o.OrderRef},
		{"trade_ref", &o.TradeRef},
		{"security_id", &o.SecurityID},
		{"security_name", &o.SecurityName},
		{"currency", &o.Currency},
		{"counterparty", &o.Counterparty},
		{"order_description", &o.OrderDescription},
	}
	for _, f := range stringFields {
		v, err := optionalString(obj, f.key, path)
		if err != nil {
			return nil, err
		}
		*f.dest = v
	}
	if o.TransactionType, err = optionalEnum(obj, "transaction_type", path, domain.ValidTransactionType, domain.TransactionTypes); err != nil {
		return nil, err
	}
	if o.SecurityType, err = optionalEnum(obj, "security_type", path, domain.ValidSecurityType, domain.SecurityTypes); err != nil {
		return nil, err
	}
	if o.Quantity, err = optionalFloat(obj, "quantity", path); err != nil {
		return nil, err
	}
	if o.Price, err = optionalFloat(obj, "price", path); err != nil {
		return nil, err
	}
	if o.NetAmount, err = optionalFloat(obj, "net_amount", path); err != nil {
		return nil, err
	}
	if o.GrossAmount, err = optionalFloat(obj, "gross_amount", path); err != nil {
		return nil, err
	}
	return o, nil
}

// decodeArray decodes an optional array field; absence and null decode to
// an empty slice.
func decodeArray[T any](obj map[string]interface{}, key, path string, decode func(map[string]interface{}, string) (*T, error)) ([]T, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	slice, ok := raw.([]interface{})
	if !ok {
		return nil, &SchemaValidationError{Path: path + "." + key, Reason: fmt.Sprintf("expected array, got %T", raw)}
	}
	out := make([]T, 0, len(slice))
	for i, item := range slice {
		itemPath := fmt.Sprintf("%s.%s.%d", path, key, i)
		itemObj, ok := item.(map[string]interface{})
		if !ok {
			return nil, &SchemaValidationError{Path: itemPath, Reason: fmt.Sprintf("expected object, got %T", item)}
		}
		decoded, err := decode(itemObj, itemPath)
		if err != nil {
			return nil, err
		}
		out = append(out, *decoded)
	}
	return out, nil
}

// optionalString reads a nullable string field; absence and explicit null
// are equivalent and both decode to nil.
func optionalString(obj map[string]interface{}, key, path string) (*string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &SchemaValidationError{Path: path + "." + key, Reason: fmt.Sprintf("expected string or null, got %T", v)}
	}
	return &s, nil
}

// optionalFloat reads a nullable number field.
func optionalFloat(obj map[string]interface{}, key, path string) (*float64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	default:
		return nil, &SchemaValidationError{Path: path + "." + key, Reason: fmt.Sprintf("expected number or null, got %T", v)}
	}
}

// optionalEnum reads a nullable string field constrained to a closed
// vocabulary.
func optionalEnum(obj map[string]interface{}, key, path string, valid func(string) bool, allowed []string) (*string, error) {
	v, err := optionalString(obj, key, path)
	if err != nil || v == nil {
		return v, err
	}
	if !valid(*v) {
		return nil, &SchemaValidationError{
			Path:   path + "." + key,
			Reason: fmt.Sprintf("%q is not one of [%s]", *v, strings.Join(allowed, ", ")),
		}
	}
	return v, nil
}
