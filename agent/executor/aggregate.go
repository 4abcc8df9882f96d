package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
)

func (e *Executor) calculateTotalValue(ctx context.Context, raw string) contract.OperationResult {
	var args aggregateArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	contracts = applyFilters(contracts, args.conditions())

	var total float64
	for _, c := range contracts {
		total += c.Amount
	}
	total = recordx.Round2(total)
	count := len(contracts)
	return contract.OperationResult{
		Success:       true,
		Message:       fmt.Sprintf("Total value of %d contracts: %.2f", count, total),
		TotalAmount:   &total,
		ContractCount: &count,
		Filters:       args.conditions(),
	}
}

func (e *Executor) calculateAverageValue(ctx context.Context, raw string) contract.OperationResult {
	var args aggregateArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	contracts = applyFilters(contracts, args.conditions())

	count := len(contracts)
	var avg float64
	if count > 0 {
		var total float64
		for _, c := range contracts {
			total += c.Amount
		}
		avg = recordx.Round2(total / float64(count))
	}
	return contract.OperationResult{
		Success:       true,
		Message:       fmt.Sprintf("Average value of %d contracts: %.2f", count, avg),
		AverageAmount: &avg,
		ContractCount: &count,
		Filters:       args.conditions(),
	}
}

func (e *Executor) calculateContractDuration(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args contractIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if id := strings.TrimSpace(args.ContractID); id != "" {
		c, err := e.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, recordx.ErrNotFound) {
				return notFound(fmt.Sprintf("No contract with id %s", id))
			}
			return storeFailure(err)
		}
		days := recordx.Calculate(c, now).DurationDays
		return contract.OperationResult{
			Success:      true,
			Message:      fmt.Sprintf("Contract %q runs for %d days", c.Name, days),
			DurationDays: &days,
		}
	}

	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	entries := make([]recordx.DurationEntry, 0, len(contracts))
	for _, c := range contracts {
		entries = append(entries, recordx.DurationEntry{
			ID:           c.ID,
			Name:         c.Name,
			DurationDays: recordx.Calculate(c, now).DurationDays,
		})
	}
	return contract.OperationResult{
		Success:   true,
		Message:   fmt.Sprintf("Durations for %d contracts", len(entries)),
		Durations: entries,
	}
}

func (e *Executor) calculateMonthlyValue(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args contractIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if id := strings.TrimSpace(args.ContractID); id != "" {
		c, err := e.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, recordx.ErrNotFound) {
				return notFound(fmt.Sprintf("No contract with id %s", id))
			}
			return storeFailure(err)
		}
		monthly := recordx.Calculate(c, now).MonthlyAmount
		return contract.OperationResult{
			Success:       true,
			Message:       fmt.Sprintf("Contract %q costs %.2f per month", c.Name, monthly),
			MonthlyAmount: &monthly,
		}
	}

	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	entries := make([]recordx.MonthlyAmountEntry, 0, len(contracts))
	for _, c := range contracts {
		entries = append(entries, recordx.MonthlyAmountEntry{
			ID:            c.ID,
			Name:          c.Name,
			MonthlyAmount: recordx.Calculate(c, now).MonthlyAmount,
		})
	}
	return contract.OperationResult{
		Success:        true,
		Message:        fmt.Sprintf("Monthly amounts for %d contracts", len(entries)),
		MonthlyAmounts: entries,
	}
}

func (e *Executor) getExpiringContracts(ctx context.Context, raw string, now time.Time) contract.OperationResult {
	var args expiringArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}
	horizon := args.horizon()
	expiring := make([]recordx.WithCalculations, 0)
	for _, c := range contracts {
		withCalc := recordx.Calculate(c, now)
		if withCalc.DaysRemaining > 0 && withCalc.DaysRemaining <= horizon {
			expiring = append(expiring, withCalc)
		}
	}
	return contract.OperationResult{
		Success:   true,
		Message:   fmt.Sprintf("%d contracts expire within %d days", len(expiring), horizon),
		Contracts: expiring,
		Count:     len(expiring),
	}
}

func (e *Executor) groupByClient(ctx context.Context, raw string) contract.OperationResult {
	var args groupByClientArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	if err := args.validate(); err != nil {
		return failure(err)
	}
	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}

	byClient := make(map[string]*recordx.ClientGroup)
	order := make([]string, 0)
	for _, c := range contracts {
		g, ok := byClient[c.CounterpartyName]
		if !ok {
			g = &recordx.ClientGroup{CounterpartyName: c.CounterpartyName}
			byClient[c.CounterpartyName] = g
			order = append(order, c.CounterpartyName)
		}
		g.ContractCount++
		g.TotalAmount += c.Amount
		g.Contracts = append(g.Contracts, c)
	}

	groups := make([]recordx.ClientGroup, 0, len(order))
	for _, name := range order {
		g := byClient[name]
		g.TotalAmount = recordx.Round2(g.TotalAmount)
		g.AverageAmount = recordx.Round2(g.TotalAmount / float64(g.ContractCount))
		groups = append(groups, *g)
	}
	sortClientGroups(groups, args.key(), args.descending())

	return contract.OperationResult{
		Success:      true,
		Message:      fmt.Sprintf("%d contracts across %d clients", len(contracts), len(groups)),
		ClientGroups: groups,
		ClientCount:  len(groups),
	}
}

func sortClientGroups(groups []recordx.ClientGroup, key string, desc bool) {
	less := func(a, b recordx.ClientGroup) bool {
		switch key {
		case "averageAmount":
			return a.AverageAmount < b.AverageAmount
		case "contractCount":
			return a.ContractCount < b.ContractCount
		case "counterpartyName":
			return strings.ToLower(a.CounterpartyName) < strings.ToLower(b.CounterpartyName)
		}
		return a.TotalAmount < b.TotalAmount
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if desc {
			return less(groups[j], groups[i])
		}
		return less(groups[i], groups[j])
	})
}

func (e *Executor) groupByStatus(ctx context.Context, raw string) contract.OperationResult {
	var args groupByStatusArgs
	if err := decodeArgs(raw, &args); err != nil {
		return invalidArgs(err)
	}
	contracts, err := e.store.GetAll(ctx)
	if err != nil {
		return storeFailure(err)
	}

	byStatus := make(map[recordx.Status]*recordx.StatusGroup)
	for _, c := range contracts {
		g, ok := byStatus[c.Status]
		if !ok {
			g = &recordx.StatusGroup{Status: c.Status}
			byStatus[c.Status] = g
		}
		g.ContractCount++
		if args.withAmount() {
			g.TotalAmount += c.Amount
		}
		g.Contracts = append(g.Contracts, c)
	}

	// Stable status order regardless of row order.
	groups := make([]recordx.StatusGroup, 0, len(byStatus))
	for _, name := range recordx.Statuses() {
		if g, ok := byStatus[recordx.Status(name)]; ok {
			g.TotalAmount = recordx.Round2(g.TotalAmount)
			groups = append(groups, *g)
		}
	}
	return contract.OperationResult{
		Success:      true,
		Message:      fmt.Sprintf("%d contracts across %d statuses", len(contracts), len(groups)),
		StatusGroups: groups,
	}
}
