package pipeline

import (
	"strings"

	"github.com/dvloznov/statement-normalizer/internal/domain"
)

// securityRef is the holding-side half of a cross-reference: the identifier
// and type a matching transaction can inherit.
type securityRef struct {
	securityID   *string
	securityType *string
}

// resolveCrossReferences backfills Interest/Coupon transactions from the
// account's finalized holdings. The lookup is keyed by normalized security
// name (lower-cased, internal whitespace collapsed, trimmed); matching is
// exact on the normalized string, no fuzzy matching. A transaction that
// matches nothing keeps a nil identifier; that is an unresolved
// cross-reference, not an error.
func resolveCrossReferences(acc *domain.Account) {
	byName := make(map[string]securityRef, len(acc.Holdings))
	for i := range acc.Holdings {
		h := &acc.Holdings[i]
		key := normalizeSecurityName(h.SecurityName)
		if key == "" {
			continue
		}
		byName[key] = securityRef{securityID: h.SecurityID, securityType: h.SecurityType}
	}

	for i := range acc.Transactions {
		t := &acc.Transactions[i]
		if t.TransactionType == nil {
			continue
		}
		tt := *t.TransactionType
		if tt != domain.TransactionTypeInterest && tt != domain.TransactionTypeCoupon {
			continue
		}

		if t.SecurityID == nil {
			key := normalizeSecurityName(t.SecurityName)
			if ref, ok := byName[key]; ok && key != "" && ref.securityID != nil {
				id := *ref.securityID
				t.SecurityID = &id
			}
		}

		// Interest and coupon payments are assumed bond-originated
		// whether or not the name lookup matched.
		if t.SecurityType == nil {
			bond := domain.SecurityTypeBond
			t.SecurityType = &bond
		}
	}
}

// normalizeSecurityName lower-cases, collapses internal whitespace to
// single spaces, and trims. Nil or blank names normalize to "".
func normalizeSecurityName(name *string) string {
	if name == nil {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(*name)), " ")
}

func trimmed(s string) string { return strings.TrimSpace(s) }
