package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
)

// Record operations go through the store and return contracts with the
// derived fields recomputed against now.

func (e *Executor) getContracts(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args getContractsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	out := make([]recordx.WithCalculations, 0, len(contracts))
	for _, c := range contracts {
		if args.withCalculations() {
			out = append(out, recordx.Calculate(c, now))
		} else {
			out = append(out, recordx.WithCalculations{Contract: c})
		}
	}
	return contract.OperationResult{
		Success:   true,
		Message:   fmt.Sprintf("Found %d contracts", len(contracts)),
		Contracts: out,
		Count:     len(contracts),
	}
}

func (e *Executor) getContractByID(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args getContractArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	c, err := e.store.GetByID(ctx, args.ID)
	if err != nil {
		if errors.Is(err, recordx.ErrNotFound) {
			return notFound(fmt.Sprintf("No contract with id %s", args.ID))
		}
		return storeFailure(err)
	}
	result := recordx.WithCalculations{Contract: c}
	if args.withCalculations() {
		result = recordx.Calculate(c, now)
	}
	return contract.OperationResult{
		Success:  true,
		Message:  fmt.Sprintf("Found contract %q", c.Name),
		Contract: &result,
	}
}

func (e *Executor) addContract(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args addContractArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	status := args.Status
	if status == "" {
		status = recordx.StatusPending
	}
	c := recordx.Contract{
		ID:               e.newID(),
		Name:             args.Name,
		CounterpartyName: args.CounterpartyName,
		Amount:           *args.Amount,
		StartDate:        args.StartDate,
		EndDate:          args.EndDate,
		Status:           status,
	}
	if err := e.store.Insert(ctx, c); err != nil {
		return storeFailure(err)
	}
	withCalc := recordx.Calculate(c, now)
	return contract.OperationResult{
		Success:  true,
		Message:  fmt.Sprintf("Contract %q added", c.Name),
		ID:       c.ID,
		Contract: &withCalc,
	}
}

func (e *Executor) updateContract(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args updateContractArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	updated, err := e.store.UpdateByID(ctx, args.ID, args.Updates)
	if err != nil {
		if errors.Is(err, recordx.ErrNotFound) {
			return notFound(fmt.Sprintf("No contract with id %s", args.ID))
		}
		return storeFailure(err)
	}
	withCalc := recordx.Calculate(updated, now)
	return contract.OperationResult{
		Success:  true,
		Message:  fmt.Sprintf("Contract %q updated", updated.Name),
		Contract: &withCalc,
	}
}

func (e *Executor) updateContractByName(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args updateByNameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	match, err := e.store.FindFirstByNameContains(ctx, args.Name)
	if err != nil {
		if errors.Is(err, recordx.ErrNotFound) {
			return notFound(fmt.Sprintf("No contract matching %q", args.Name))
		}
		return storeFailure(err)
	}
	updated, err := e.store.UpdateByID(ctx, match.ID, args.Updates)
	if err != nil {
		return storeFailure(err)
	}
	withCalc := recordx.Calculate(updated, now)
	return contract.OperationResult{
		Success:  true,
		Message:  fmt.Sprintf("Contract %q updated", updated.Name),
		Contract: &withCalc,
	}
}

func (e *Executor) deleteContract(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args idArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	if err := e.store.DeleteByID(ctx, args.ID); err != nil {
		if errors.Is(err, recordx.ErrNotFound) {
			return notFound(fmt.Sprintf("No contract with id %s", args.ID))
		}
		return storeFailure(err)
	}
	remaining, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	return contract.OperationResult{
		Success:   true,
		Message:   "Contract deleted",
		Contracts: recordx.CalculateAll(remaining, now),
		Count:     len(remaining),
	}
}

func (e *Executor) deleteContractByName(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args nameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	match, err := e.store.FindFirstByNameContains(ctx, args.Name)
	if err != nil {
		if errors.Is(err, recordx.ErrNotFound) {
			return notFound(fmt.Sprintf("No contract matching %q", args.Name))
		}
		return storeFailure(err)
	}
	if err := e.store.DeleteByID(ctx, match.ID); err != nil {
		return storeFailure(err)
	}
	remaining, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	deleted := recordx.Calculate(match, now)
	return contract.OperationResult{
		Success:         true,
		Message:         fmt.Sprintf("Contract %q deleted", match.Name),
		DeletedContract: &deleted,
		Contracts:       recordx.CalculateAll(remaining, now),
		Count:           len(remaining),
	}
}

func (e *Executor) deleteContracts(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args idsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	deleted, err := e.store.DeleteByIDs(ctx, args.IDs)
	if err != nil {
		return storeFailure(err)
	}
	remaining, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	return contract.OperationResult{
		Success:      true,
		Message:      fmt.Sprintf("Deleted %d of %d contracts", deleted, len(args.IDs)),
		DeletedCount: &deleted,
		Contracts:    recordx.CalculateAll(remaining, now),
		Count:        len(remaining),
	}
}
