package pipeline

import (
	"encoding/json"
	"errors"
	"testing"
)

func mustParse(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return parsed
}

func TestDecodeStatement_Valid(t *testing.T) {
	raw := mustParse(t, `{
		"statement_metadata": {
			"statement_date": "2024-03-31",
			"statement_issuer": "Example Wealth",
			"statement_frequency": "Monthly",
			"base_currency": "USD"
		},
		"accounts": [
			{
				"account_information": {
					"account_id": "ACC-1",
					"primary_holder_name": "Jane Doe"
				},
				"holdings": [
					{
						"security_name": "Apple Inc",
						"security_type": "Stock",
						"quantity": 10,
						"price": 170.5,
						"market_value": 1705
					}
				],
				"transactions": [
					{
						"transaction_date": "2024-03-15",
						"transaction_type": "Buy",
						"net_amount": 1705,
						"ignored_extra_key": "dropped"
					}
				]
			}
		]
	}`)

	stmt, err := DecodeStatement(raw)
	if err != nil {
		t.Fatalf("DecodeStatement failed: %v", err)
	}

	if *stmt.StatementMetadata.StatementIssuer != "Example Wealth" {
		t.Errorf("issuer = %q", *stmt.StatementMetadata.StatementIssuer)
	}
	if len(stmt.Accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(stmt.Accounts))
	}
	acc := stmt.Accounts[0]
	if acc.AccountInformation == nil || *acc.AccountInformation.AccountID != "ACC-1" {
		t.Errorf("account_information = %+v", acc.AccountInformation)
	}
	if len(acc.Holdings) != 1 || *acc.Holdings[0].Quantity != 10 {
		t.Errorf("holdings = %+v", acc.Holdings)
	}
	if len(acc.Transactions) != 1 || *acc.Transactions[0].TransactionType != "Buy" {
		t.Errorf("transactions = %+v", acc.Transactions)
	}
	if len(acc.Orders) != 0 {
		t.Errorf("orders should be empty, got %+v", acc.Orders)
	}
}

func TestDecodeStatement_NullsAndAbsenceEquivalent(t *testing.T) {
	raw := mustParse(t, `{
		"statement_metadata": {"statement_date": null},
		"accounts": [{"holdings": null, "transactions": [{"quantity": null}]}]
	}`)

	stmt, err := DecodeStatement(raw)
	if err != nil {
		t.Fatalf("DecodeStatement failed: %v", err)
	}
	if stmt.StatementMetadata.StatementDate != nil {
		t.Errorf("null statement_date should decode to nil")
	}
	if len(stmt.Accounts[0].Holdings) != 0 {
		t.Errorf("null holdings should decode to empty")
	}
	if stmt.Accounts[0].Transactions[0].Quantity != nil {
		t.Errorf("null quantity should decode to nil")
	}
}

func TestDecodeStatement_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPath string
	}{
		{
			name:     "missing metadata",
			raw:      `{"accounts": []}`,
			wantPath: "statement_metadata",
		},
		{
			name:     "metadata wrong type",
			raw:      `{"statement_metadata": "x", "accounts": []}`,
			wantPath: "statement_metadata",
		},
		{
			name:     "missing accounts",
			raw:      `{"statement_metadata": {}}`,
			wantPath: "accounts",
		},
		{
			name:     "accounts not an array",
			raw:      `{"statement_metadata": {}, "accounts": {}}`,
			wantPath: "accounts",
		},
		{
			name:     "account item not an object",
			raw:      `{"statement_metadata": {}, "accounts": ["x"]}`,
			wantPath: "accounts.0",
		},
		{
			name:     "string field given number",
			raw:      `{"statement_metadata": {"statement_issuer": 42}, "accounts": []}`,
			wantPath: "statement_metadata.statement_issuer",
		},
		{
			name:     "number field given string",
			raw:      `{"statement_metadata": {}, "accounts": [{"holdings": [{"quantity": "ten"}]}]}`,
			wantPath: "accounts.0.holdings.0.quantity",
		},
		{
			name:     "invalid security type",
			raw:      `{"statement_metadata": {}, "accounts": [{"holdings": [{"security_type": "Crypto"}]}]}`,
			wantPath: "accounts.0.holdings.0.security_type",
		},
		{
			name:     "invalid transaction type",
			raw:      `{"statement_metadata": {}, "accounts": [{"transactions": [{"transaction_type": "Lend"}]}]}`,
			wantPath: "accounts.0.transactions.0.transaction_type",
		},
		{
			name:     "invalid statement frequency",
			raw:      `{"statement_metadata": {"statement_frequency": "Daily"}, "accounts": []}`,
			wantPath: "statement_metadata.statement_frequency",
		},
		{
			name:     "holdings not an array",
			raw:      `{"statement_metadata": {}, "accounts": [{"holdings": {}}]}`,
			wantPath: "accounts.0.holdings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStatement(mustParse(t, tt.raw))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var schemaErr *SchemaValidationError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaValidationError, got %T: %v", err, err)
			}
			if schemaErr.Path != tt.wantPath {
				t.Errorf("error path = %q, want %q", schemaErr.Path, tt.wantPath)
			}
		})
	}
}

func TestDecodeStatement_EnumValues(t *testing.T) {
	validTypes := []string{"Purchase", "Redemption", "Switch In", "Settlement Credit", "Buy", "Sell", "Interest", "Coupon", "Dividend Payout", "STT"}
	for _, txnType := range validTypes {
		raw := mustParse(t, `{"statement_metadata": {}, "accounts": [{"transactions": [{"transaction_type": "`+txnType+`"}]}]}`)
		if _, err := DecodeStatement(raw); err != nil {
			t.Errorf("transaction_type %q should be valid: %v", txnType, err)
		}
	}
}
