package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the pipeline is fed zero transactions.
// An empty batch is fatal: every downstream table would be empty too.
var ErrEmptyInput = errors.New("no transaction records in batch")

// LoadError marks a malformed input batch. A single bad row invalidates the
// whole batch; downstream formulas assume clean, fully typed rows.
type LoadError struct {
	File string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingStockLevelError means a policy key had no stock observation to join
// against. Given that every summary key comes from at least one transaction,
// this indicates a bug in the join rather than bad data, and it is fatal.
type MissingStockLevelError struct {
	MachineID string
	ProductID string
}

func (e *MissingStockLevelError) Error() string {
	return fmt.Sprintf("no stock observation for machine %s product %s", e.MachineID, e.ProductID)
}

// UnknownSelectorError reports a selector that matches no machine. Only
// surfaced when strict selector handling is enabled; the tolerant default
// returns an empty view instead.
type UnknownSelectorError struct {
	Selector string
}

func (e *UnknownSelectorError) Error() string {
	return fmt.Sprintf("unknown machine selector %q", e.Selector)
}
