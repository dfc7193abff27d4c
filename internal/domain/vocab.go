package domain

// Closed vocabularies for the enum-constrained statement fields. The
// transaction-type set is the union of three instrument-specific sets plus
// two cross-cutting values; each member is listed under the instrument
// class that contributes it so the provenance stays visible instead of
// being assembled at runtime.

// Statement frequencies.
const (
	FrequencyMonthly   = "Monthly"
	FrequencyQuarterly = "Quarterly"
	FrequencyAnnual    = "Annual"
	FrequencyOther     = "Other"
)

// Security types.
const (
	SecurityTypeStock      = "Stock"
	SecurityTypeBond       = "Bond"
	SecurityTypeMutualFund = "Mutual Fund"
	SecurityTypeOthers     = "Others"
)

// StatementFrequencies lists the allowed statement_frequency values.
var StatementFrequencies = []string{
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyAnnual,
	FrequencyOther,
}

// SecurityTypes lists the allowed security_type values.
var SecurityTypes = []string{
	SecurityTypeStock,
	SecurityTypeBond,
	SecurityTypeMutualFund,
	SecurityTypeOthers,
}

// TransactionTypes lists every allowed transaction_type value, grouped by
// the instrument class the value comes from.
var TransactionTypes = []string{
	// Mutual-fund lifecycle actions (CAS / folio statements).
	"Purchase",
	"Redemption",
	"Switch In",
	"Switch Out",
	"Transfer In",
	"Transfer Out",
	"Systematic Purchase",
	"Systematic Redemption",
	"Systematic Switch In",
	"Systematic Switch Out",
	"Stamp Duty",
	"STT",
	"Dividend Payout",
	"Dividend Reinvestment",
	"Bonus",
	"Others",

	// Demat settlement actions (depository statements).
	"Settlement Credit",
	"Settlement Debit",
	"Corporate Action Debit",
	"Corporate Action Credit",

	// Contract-note trade actions (broker contract notes).
	"Buy",
	"Sell",
	"Charges",
	"Taxes",

	// Cross-cutting income types; these tie a transaction to a Bond
	// holding when the cross-reference heuristic can resolve one.
	TransactionTypeInterest,
	TransactionTypeCoupon,
}

// The two transaction types the cross-reference engine treats specially.
const (
	TransactionTypeInterest = "Interest"
	TransactionTypeCoupon   = "Coupon"
)

var (
	statementFrequencySet = toSet(StatementFrequencies)
	securityTypeSet       = toSet(SecurityTypes)
	transactionTypeSet    = toSet(TransactionTypes)
)

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// ValidStatementFrequency reports whether s is an allowed statement_frequency.
func ValidStatementFrequency(s string) bool { return statementFrequencySet[s] }

// ValidSecurityType reports whether s is an allowed security_type.
func ValidSecurityType(s string) bool { return securityTypeSet[s] }

// ValidTransactionType reports whether s is an allowed transaction_type.
func ValidTransactionType(s string) bool { return transactionTypeSet[s] }
