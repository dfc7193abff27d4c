package pipeline

import "math"

// absFloat discards the sign of a monetary or quantity field. Nil passes
// through. The source document's debit/credit conventions are intentionally
// lost here; direction semantics, if ever needed, must be reconstructed
// from transaction_type.
func absFloat(n *float64) *float64 {
	if n == nil {
		return nil
	}
	v := math.Abs(*n)
	return &v
}
