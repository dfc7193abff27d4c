package pipeline

// extractionPrompt is the fixed instruction sent with every statement PDF.
// The model is additionally constrained by the response schema in
// response_schema.go; the prose rules here cover what a JSON schema cannot
// express (grouping, sign handling, placeholder suppression).
const extractionPrompt = `You are an expert financial data extraction AI. Analyze the provided PDF statement and return ONLY valid JSON matching the FinancialSecurityStatement schema:

{
  "statement_metadata": {
    "statement_date": "YYYY-MM-DD or null",
    "reporting_period_start": "YYYY-MM-DD or null",
    "reporting_period_end": "YYYY-MM-DD or null",
    "statement_issuer": "string or null",
    "statement_frequency": "Monthly|Quarterly|Annual|Other or null",
    "base_currency": "string or null",
    "statement_description": "string or null"
  },
  "accounts": [
    {
      "account_information": { "account_id": "folio/demat/portfolio id (prefer this over bank numbers) or null", ... },
      "holdings": [ ... ],
      "transactions": [ ... ],
      "orders": [ ONLY if explicit order placement info exists ]
    }
  ]
}

STRICT RULES:
- Extract ALL holdings and ALL transactions from ALL pages. Group them under the correct account.
- Dates MUST be YYYY-MM-DD (zero-padded). If a holding date is missing, leave null (we will fill with the statement date).
- Numeric values MUST be positive (absolute values).
- security_type MUST be one of: Stock, Bond, Mutual Fund, Others.
- Preserve original currency codes (USD, EUR, GBP, CNH, ...). Do NOT convert currencies.
- ACCOUNT ID: prefer the investment account identifier printed on the statement header (folio/demat/portfolio). Do NOT use a bank number if both appear.
- BOND COUPONS/INTEREST: set transaction_type to "Interest" (or "Coupon"), security_type="Bond", and copy the bond ISIN into security_id.
- TIME DEPOSITS: use security_type="Others". "NEW DEPOSIT", "MATURED TIME DEPOSIT", and their interest belong to "Others".
- CHARGES/TAXES per trade: create separate transaction objects with transaction_type "Charges" or "Taxes" and copy security_id/security_name/security_type from the related trade.
- Every holding must have at least one of {security_id | security_name | quantity | market_value}. Do NOT emit empty placeholder rows.
- Exclude loan drawdowns/repayments unless they are actual securities transactions.
- Use null for unavailable fields.
- Return ONLY JSON, no markdown.`

// hintPreamble introduces the optional plaintext side channel.
const hintPreamble = "\n\nPlain-text hint extracted from the PDF (may be imperfect):\n"
