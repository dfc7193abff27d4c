package pipeline

import (
	"github.com/dvloznov/statement-normalizer/internal/domain"
	"google.golang.org/genai"
)

// statementResponseSchema builds the JSON schema the extraction call is
// constrained to. It mirrors the domain model: every leaf nullable, enums
// closed, statement_metadata and accounts required at the top level. Kept
// free of oneOf/additionalProperties so it stays within what the Gemini
// API accepts for constrained output.
func statementResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"statement_metadata": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"statement_date":         nullableString(),
					"reporting_period_start": nullableString(),
					"reporting_period_end":   nullableString(),
					"statement_issuer":       nullableString(),
					"statement_frequency":    nullableEnum(domain.StatementFrequencies),
					"base_currency":          nullableString(),
					"statement_description":  nullableString(),
				},
				Required: []string{"statement_date"},
			},
			"accounts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"account_information": accountInformationSchema(),
						"holdings":            nullableArray(holdingSchema()),
						"transactions":        nullableArray(transactionSchema()),
						"orders":              nullableArray(orderSchema()),
					},
				},
			},
		},
		Required: []string{"statement_metadata", "accounts"},
	}
}

func accountInformationSchema() *genai.Schema {
	props := make(map[string]*genai.Schema)
	for _, key := range []string{
		"account_id", "account_type",
		"primary_holder_name", "primary_holder_id",
		"secondary_holder_name", "secondary_holder_id",
		"third_holder_name", "third_holder_id",
		"advisory_mandate", "relationship_manager",
		"base_currency", "custodian_name", "custodian_id",
		"bank_name", "bank_account_id", "broker_code",
	} {
		props[key] = nullableString()
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Nullable:   genai.Ptr(true),
	}
}

func holdingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"security_id":           nullableString(),
			"security_name":         nullableString(),
			"security_type":         nullableEnum(domain.SecurityTypes),
			"issuer":                nullableString(),
			"quantity":              nullableNumber(),
			"price":                 nullableNumber(),
			"market_value":          nullableNumber(),
			"average_cost_per_unit": nullableNumber(),
			"total_cost_value":      nullableNumber(),
			"currency":              nullableString(),
			"unrealized_gain_loss":  nullableNumber(),
			"invested_value":        nullableNumber(),
			"committed_value":       nullableNumber(),
			"drawndown_value":       nullableNumber(),
			"capital_returned":      nullableNumber(),
			"income_distributed":    nullableNumber(),
			"holding_date":          nullableString(),
			"price_date":            nullableString(),
		},
	}
}

func transactionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transaction_date":        nullableString(),
			"transaction_type":        nullableEnum(domain.TransactionTypes),
			"security_id":             nullableString(),
			"security_name":           nullableString(),
			"security_type":           nullableEnum(domain.SecurityTypes),
			"quantity":                nullableNumber(),
			"price":                   nullableNumber(),
			"net_amount":              nullableNumber(),
			"gross_amount":            nullableNumber(),
			"currency":                nullableString(),
			"counterparty":            nullableString(),
			"transaction_ref":         nullableString(),
			"settlement_date":         nullableString(),
			"transaction_description": nullableString(),
		},
	}
}

func orderSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"order_date":        nullableString(),
			"order_time":        nullableString(),
			"trade_date":        nullableString(),
			"trade_time":        nullableString(),
			"order_ref":         nullableString(),
			"trade_ref":         nullableString(),
			"transaction_type":  nullableEnum(domain.TransactionTypes),
			"security_id":       nullableString(),
			"security_name":     nullableString(),
			"security_type":     nullableEnum(domain.SecurityTypes),
			"quantity":          nullableNumber(),
			"price":             nullableNumber(),
			"net_amount":        nullableNumber(),
			"gross_amount":      nullableNumber(),
			"currency":          nullableString(),
			"counterparty":      nullableString(),
			"order_description": nullableString(),
		},
	}
}

func nullableString() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Nullable: genai.Ptr(true)}
}

func nullableNumber() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Nullable: genai.Ptr(true)}
}

func nullableEnum(values []string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values, Nullable: genai.Ptr(true)}
}

func nullableArray(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items, Nullable: genai.Ptr(true)}
}
