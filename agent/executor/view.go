package executor

import (
	"context"
	"fmt"

	"github.com/contractdesk/contractdesk/agent/contract"
	"github.com/contractdesk/contractdesk/agent/registry"
)

// View-intent operations never touch the store. They validate, then echo
// a normalized instruction the caller's table view applies client-side.

func (e *Executor) filterTable(_ context.Context, raw string) contract.OperationResult {
	var args filterTableArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	cond := args.condition()
	return contract.OperationResult{
		Success: true,
		Message: fmt.Sprintf("Filtering %s %s %v", cond.Column, cond.Operator, cond.Value),
		Action:  "filter",
		Filter:  &cond,
	}
}

func (e *Executor) filterMultipleColumns(_ context.Context, raw string) contract.OperationResult {
	var args filterMultipleArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	conds := args.conditions()
	return contract.OperationResult{
		Success: true,
		Message: fmt.Sprintf("Applying %d filters together", len(conds)),
		Action:  "filterMultiple",
		Filters: conds,
	}
}

func (e *Executor) clearFilters(_ context.Context, raw string) contract.OperationResult {
	var args struct{}
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	return contract.OperationResult{
		Success: true,
		Message: "All filters cleared",
		Action:  "clearFilters",
	}
}

func (e *Executor) sortTable(_ context.Context, raw string) contract.OperationResult {
	var args sortTableArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	return contract.OperationResult{
		Success: true,
		Message: fmt.Sprintf("Sorting by %s %s", args.Column, args.Direction),
		Action:  "sort",
		Sort:    &contract.SortSpec{Column: args.Column, Direction: args.Direction},
	}
}

func (e *Executor) clearSorting(_ context.Context, raw string) contract.OperationResult {
	var args struct{}
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	return contract.OperationResult{
		Success: true,
		Message: "Sorting cleared, default order restored",
		Action:  "clearSort",
	}
}

func (e *Executor) searchTable(_ context.Context, raw string) contract.OperationResult {
	var args searchTableArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	columns := args.Columns
	if len(columns) == 0 {
		columns = append([]string(nil), registry.SearchColumns...)
	}
	return contract.OperationResult{
		Success: true,
		Message: fmt.Sprintf("Searching for %q", args.Query),
		Action:  "search",
		Search: &contract.SearchSpec{
			Query:         args.Query,
			Columns:       columns,
			CaseSensitive: args.CaseSensitive,
		},
	}
}

func (e *Executor) setPageSize(_ context.Context, raw string) contract.OperationResult {
	var args setPageSizeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	return contract.OperationResult{
		Success:  true,
		Message:  fmt.Sprintf("Showing %d contracts per page", args.PageSize),
		Action:   "setPageSize",
		PageSize: args.PageSize,
	}
}

func (e *Executor) goToPage(_ context.Context, raw string) contract.OperationResult {
	var args goToPageArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	return contract.OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("Moving to page %d", args.PageNumber),
		Action:     "goToPage",
		PageNumber: args.PageNumber,
	}
}
