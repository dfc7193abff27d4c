package remap

import (
	"encoding/json"
	"fmt"

	"github.com/dvloznov/statement-normalizer/internal/domain"
)

// The canonical statement is never handed to the UI or the model
// directly. These helpers derive loosely-typed record views with aliases
// resolved and row identifiers assigned; all remapping and export happens
// on the views.

// HoldingRecords derives the remappable view of an account's holdings.
func HoldingRecords(holdings []domain.Holding) ([]Record, error) {
	rows, err := toRecords(holdings)
	if err != nil {
		return nil, fmt.Errorf("building holding view: %w", err)
	}
	return AssignRowIDs(ResolveHoldingAliases(rows)), nil
}

// TransactionRecords derives the remappable view of an account's
// transactions.
func TransactionRecords(transactions []domain.Transaction) ([]Record, error) {
	rows, err := toRecords(transactions)
	if err != nil {
		return nil, fmt.Errorf("building transaction view: %w", err)
	}
	return AssignRowIDs(ResolveTransactionAliases(rows)), nil
}

// toRecords converts typed rows into generic records through their JSON
// representation, so field names match the wire schema exactly.
func toRecords(v interface{}) ([]Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rows []Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
