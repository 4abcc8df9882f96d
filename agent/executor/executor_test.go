package executor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
)

var testNow = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func seededExecutor(t *testing.T) (*Executor, *recordx.MemoryStore) {
	t.Helper()
	store := recordx.NewMemoryStore(recordx.WithMemoryClock(func() time.Time { return testNow }))
	seed := []recordx.Contract{
		{ID: "c-1", Name: "Website Redesign", CounterpartyName: "Acme Corp", Amount: 120000, StartDate: "2024-01-01", EndDate: "2024-12-31", Status: recordx.StatusActive},
		{ID: "c-2", Name: "Cloud Migration", CounterpartyName: "Globex", Amount: 250000, StartDate: "2024-03-01", EndDate: "2025-02-28", Status: recordx.StatusActive},
		{ID: "c-3", Name: "Support Retainer", CounterpartyName: "Acme Corp", Amount: 36000, StartDate: "2024-06-01", EndDate: "2024-07-15", Status: recordx.StatusPending},
	}
	for _, c := range seed {
		if err := store.Insert(context.Background(), c); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}

	var n int
	e := New(store,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		}),
	)
	return e, store
}

func execute(t *testing.T, e *Executor, name, args string) contract.OperationResult {
	t.Helper()
	return e.Execute(context.Background(), contract.OperationRequest{
		RequestID:    "req-1",
		Name:         name,
		RawArguments: args,
	}, testNow)
}

func TestUnknownOperation(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "dropAllTables", `{}`)
	if res.Success {
		t.Fatal("expected failure for unknown operation")
	}
	if res.Error != "unknown operation: dropAllTables" {
		t.Fatalf("unexpected error message: %q", res.Error)
	}
}

func TestMalformedArgumentsFailInsideEnvelope(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "filterTable", `{"column": "amount",`)
	if res.Success {
		t.Fatal("expected failure for malformed arguments")
	}
	if res.Error != "invalid arguments" || res.Details == "" {
		t.Fatalf("unexpected envelope: error=%q details=%q", res.Error, res.Details)
	}

	res = execute(t, e, "sortTable", `{"column":"amount","direction":"asc","bogus":true}`)
	if res.Success {
		t.Fatal("expected failure for unknown argument key")
	}
}

func TestFilterTable(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "filterTable", `{"column":"amount","operator":"greaterThan","value":100000}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Action != "filter" {
		t.Fatalf("expected filter action, got %q", res.Action)
	}
	if res.Filter == nil || res.Filter.Column != "amount" || res.Filter.Operator != "greaterThan" {
		t.Fatalf("unexpected filter echo: %+v", res.Filter)
	}
}

func TestFilterTableBetweenRequiresValue2(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "filterTable", `{"column":"amount","operator":"between","value":100}`)
	if res.Success {
		t.Fatal("expected failure when between has no value2")
	}
}

func TestFilterTableRejectsUnknownColumn(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "filterTable", `{"column":"durationDays","operator":"equals","value":10}`)
	if res.Success {
		t.Fatal("expected failure for derived column")
	}
}

func TestFilterMultipleColumns(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "filterMultipleColumns",
		`{"filters":[{"column":"status","operator":"equals","value":"active"},{"column":"amount","operator":"greaterThan","value":100000}]}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Action != "filterMultiple" || len(res.Filters) != 2 {
		t.Fatalf("unexpected result: action=%q filters=%d", res.Action, len(res.Filters))
	}

	res = execute(t, e, "filterMultipleColumns", `{"filters":[]}`)
	if res.Success {
		t.Fatal("expected failure for empty filter list")
	}
}

func TestSortAndClear(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "sortTable", `{"column":"endDate","direction":"asc"}`)
	if !res.Success || res.Sort == nil || res.Sort.Column != "endDate" {
		t.Fatalf("unexpected sort result: %+v", res)
	}

	res = execute(t, e, "sortTable", `{"column":"endDate","direction":"sideways"}`)
	if res.Success {
		t.Fatal("expected failure for bad direction")
	}

	res = execute(t, e, "clearSorting", ``)
	if !res.Success || res.Action != "clearSort" {
		t.Fatalf("unexpected clearSorting result: %+v", res)
	}

	res = execute(t, e, "clearFilters", ``)
	if !res.Success || res.Action != "clearFilters" {
		t.Fatalf("unexpected clearFilters result: %+v", res)
	}
}

func TestSearchTableDefaultsColumns(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "searchTable", `{"query":"acme"}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Search == nil || len(res.Search.Columns) != 2 {
		t.Fatalf("expected both name columns by default, got %+v", res.Search)
	}
	if res.Search.CaseSensitive {
		t.Fatal("expected case-insensitive default")
	}

	res = execute(t, e, "searchTable", `{"query":"  "}`)
	if res.Success {
		t.Fatal("expected failure for blank query")
	}
}

func TestPagination(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "setPageSize", `{"pageSize":50}`)
	if !res.Success || res.PageSize != 50 {
		t.Fatalf("unexpected setPageSize result: %+v", res)
	}
	res = execute(t, e, "setPageSize", `{"pageSize":25}`)
	if res.Success {
		t.Fatal("expected failure for out-of-set page size")
	}

	res = execute(t, e, "goToPage", `{"pageNumber":3}`)
	if !res.Success || res.PageNumber != 3 {
		t.Fatalf("unexpected goToPage result: %+v", res)
	}
	res = execute(t, e, "goToPage", `{"pageNumber":0}`)
	if res.Success {
		t.Fatal("expected failure for page 0")
	}
}

func TestGetContracts(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "getContracts", ``)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Count != 3 || len(res.Contracts) != 3 {
		t.Fatalf("expected 3 contracts, got count=%d len=%d", res.Count, len(res.Contracts))
	}
	// Derived fields ride along on every returned contract.
	for _, c := range res.Contracts {
		if c.DurationDays == 0 {
			t.Fatalf("contract %s has no derived duration", c.ID)
		}
	}
}

func TestGetContractByID(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "getContractById", `{"id":"c-1"}`)
	if !res.Success || res.Contract == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Contract.DurationDays != 365 {
		t.Fatalf("expected duration 365, got %d", res.Contract.DurationDays)
	}
	if res.Contract.MonthlyAmount != 9863.01 {
		t.Fatalf("expected monthly amount 9863.01, got %v", res.Contract.MonthlyAmount)
	}

	res = execute(t, e, "getContractById", `{"id":"nope"}`)
	if res.Success {
		t.Fatal("expected failure for missing id")
	}
}

func TestGetContractsWithoutCalculations(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "getContracts", `{"includeCalculations":false}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Count != 3 {
		t.Fatalf("expected 3 contracts, got %d", res.Count)
	}
	for _, c := range res.Contracts {
		if c.DurationDays != 0 || c.DaysRemaining != 0 || c.MonthlyAmount != 0 {
			t.Fatalf("contract %s carries derived fields: %+v", c.ID, c)
		}
	}

	// An explicit true must be accepted, not rejected as an unknown key.
	res = execute(t, e, "getContracts", `{"includeCalculations":true}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Contracts[0].DurationDays == 0 {
		t.Fatalf("expected derived fields, got %+v", res.Contracts[0])
	}
}

func TestGetContractByIDWithoutCalculations(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "getContractById", `{"id":"c-1","includeCalculations":false}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Contract.DurationDays != 0 || res.Contract.MonthlyAmount != 0 {
		t.Fatalf("expected raw contract, got %+v", res.Contract)
	}
	if res.Contract.Name != "Website Redesign" {
		t.Fatalf("source fields missing: %+v", res.Contract)
	}
}

func TestAddContract(t *testing.T) {
	t.Parallel()

	e, store := seededExecutor(t)
	res := execute(t, e, "addContract",
		`{"name":"New Deal","counterpartyName":"Initech","amount":50000,"startDate":"2024-08-01","endDate":"2025-07-31"}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.ID != "gen-1" {
		t.Fatalf("expected generated id, got %q", res.ID)
	}
	if res.Contract == nil || res.Contract.Status != recordx.StatusPending {
		t.Fatalf("expected pending default status, got %+v", res.Contract)
	}

	stored, err := store.GetByID(context.Background(), "gen-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Name != "New Deal" {
		t.Fatalf("unexpected stored contract: %+v", stored)
	}
}

func TestAddContractValidation(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	cases := map[string]string{
		"missing name":   `{"counterpartyName":"X","amount":1,"startDate":"2024-01-01","endDate":"2024-02-01"}`,
		"missing amount": `{"name":"A","counterpartyName":"X","startDate":"2024-01-01","endDate":"2024-02-01"}`,
		"bad date":       `{"name":"A","counterpartyName":"X","amount":1,"startDate":"01/01/2024","endDate":"2024-02-01"}`,
		"bad status":     `{"name":"A","counterpartyName":"X","amount":1,"startDate":"2024-01-01","endDate":"2024-02-01","status":"archived"}`,
	}
	for name, args := range cases {
		if res := execute(t, e, "addContract", args); res.Success {
			t.Fatalf("%s: expected failure", name)
		}
	}
}

func TestUpdateContract(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "updateContract", `{"id":"c-1","updates":{"amount":150000,"status":"expired"}}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Contract.Amount != 150000 || res.Contract.Status != recordx.StatusExpired {
		t.Fatalf("unexpected updated contract: %+v", res.Contract)
	}

	res = execute(t, e, "updateContract", `{"id":"c-1","updates":{}}`)
	if res.Success {
		t.Fatal("expected failure for empty updates")
	}

	res = execute(t, e, "updateContract", `{"id":"missing","updates":{"amount":1}}`)
	if res.Success {
		t.Fatal("expected failure for missing contract")
	}
}

func TestUpdateContractByName(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "updateContractByName", `{"name":"cloud","updates":{"status":"cancelled"}}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Contract.ID != "c-2" || res.Contract.Status != recordx.StatusCancelled {
		t.Fatalf("unexpected match: %+v", res.Contract)
	}
}

func TestUpdateContractByNameNoMatchDoesNotMutate(t *testing.T) {
	t.Parallel()

	e, store := seededExecutor(t)
	res := execute(t, e, "updateContractByName", `{"name":"nonexistent","updates":{"status":"cancelled"}}`)
	if res.Success {
		t.Fatal("expected failure for no match")
	}

	all, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	for _, c := range all {
		if c.Status == recordx.StatusCancelled {
			t.Fatalf("contract %s was mutated", c.ID)
		}
	}
}

func TestDeleteContractReturnsRemaining(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "deleteContract", `{"id":"c-2"}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Count != 2 || len(res.Contracts) != 2 {
		t.Fatalf("expected 2 remaining, got count=%d len=%d", res.Count, len(res.Contracts))
	}

	res = execute(t, e, "deleteContract", `{"id":"c-2"}`)
	if res.Success {
		t.Fatal("expected failure deleting twice")
	}
}

func TestDeleteContractByName(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "deleteContractByName", `{"name":"retainer"}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.DeletedContract == nil || res.DeletedContract.ID != "c-3" {
		t.Fatalf("unexpected deleted contract: %+v", res.DeletedContract)
	}
	if res.Count != 2 {
		t.Fatalf("expected 2 remaining, got %d", res.Count)
	}
}

func TestDeleteContracts(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "deleteContracts", `{"ids":["c-1","c-3","missing"]}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.DeletedCount == nil || *res.DeletedCount != 2 {
		t.Fatalf("unexpected deleted count: %v", res.DeletedCount)
	}
	if res.Count != 1 {
		t.Fatalf("expected 1 remaining, got %d", res.Count)
	}

	res = execute(t, e, "deleteContracts", `{"ids":[]}`)
	if res.Success {
		t.Fatal("expected failure for empty id list")
	}
}

func TestCalculateTotalValue(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "calculateTotalValue", ``)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.TotalAmount == nil || *res.TotalAmount != 406000 {
		t.Fatalf("unexpected total: %v", res.TotalAmount)
	}

	res = execute(t, e, "calculateTotalValue",
		`{"filters":[{"column":"counterpartyName","operator":"contains","value":"acme"}]}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if *res.TotalAmount != 156000 || *res.ContractCount != 2 {
		t.Fatalf("unexpected filtered total: %v over %v contracts", *res.TotalAmount, *res.ContractCount)
	}
}

func TestCalculateAverageValue(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "calculateAverageValue",
		`{"filters":[{"column":"status","operator":"equals","value":"active"}]}`)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.AverageAmount == nil || *res.AverageAmount != 185000 {
		t.Fatalf("unexpected average: %v", res.AverageAmount)
	}

	res = execute(t, e, "calculateAverageValue",
		`{"filters":[{"column":"status","operator":"equals","value":"expired"}]}`)
	if !res.Success {
		t.Fatalf("expected success on empty set, got error %q", res.Error)
	}
	if *res.AverageAmount != 0 || *res.ContractCount != 0 {
		t.Fatalf("expected zero average over empty set, got %v", *res.AverageAmount)
	}
}

func TestCalculateContractDuration(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "calculateContractDuration", `{"contractId":"c-1"}`)
	if !res.Success || res.DurationDays == nil || *res.DurationDays != 365 {
		t.Fatalf("unexpected duration result: %+v", res)
	}

	res = execute(t, e, "calculateContractDuration", ``)
	if !res.Success || len(res.Durations) != 3 {
		t.Fatalf("expected 3 duration entries, got %+v", res)
	}
}

func TestCalculateMonthlyValue(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "calculateMonthlyValue", `{"contractId":"c-1"}`)
	if !res.Success || res.MonthlyAmount == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if *res.MonthlyAmount != 9863.01 {
		t.Fatalf("expected 9863.01, got %v", *res.MonthlyAmount)
	}

	res = execute(t, e, "calculateMonthlyValue", ``)
	if !res.Success || len(res.MonthlyAmounts) != 3 {
		t.Fatalf("expected 3 monthly entries, got %+v", res)
	}
}

func TestGetExpiringContracts(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	// c-3 ends 2024-07-15, fourteen days past the anchor.
	res := execute(t, e, "getExpiringContracts", ``)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Count != 1 || res.Contracts[0].ID != "c-3" {
		t.Fatalf("expected only c-3 to expire within 30 days, got %+v", res.Contracts)
	}

	res = execute(t, e, "getExpiringContracts", `{"daysAhead":7}`)
	if !res.Success || res.Count != 0 {
		t.Fatalf("expected no contracts within 7 days, got %+v", res)
	}

	res = execute(t, e, "getExpiringContracts", `{"daysAhead":0}`)
	if res.Success {
		t.Fatal("expected failure for non-positive horizon")
	}
}

func TestGroupByClient(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "groupByClient", ``)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.ClientCount != 2 || len(res.ClientGroups) != 2 {
		t.Fatalf("expected 2 client groups, got %+v", res)
	}
	// Default sort is totalAmount descending: Globex (250000) first.
	if res.ClientGroups[0].CounterpartyName != "Globex" {
		t.Fatalf("expected Globex first, got %q", res.ClientGroups[0].CounterpartyName)
	}
	acme := res.ClientGroups[1]
	if acme.ContractCount != 2 || acme.TotalAmount != 156000 || acme.AverageAmount != 78000 {
		t.Fatalf("unexpected Acme group: %+v", acme)
	}

	res = execute(t, e, "groupByClient", `{"sortBy":"counterpartyName","sortDirection":"asc"}`)
	if !res.Success || res.ClientGroups[0].CounterpartyName != "Acme Corp" {
		t.Fatalf("expected Acme Corp first by name: %+v", res.ClientGroups)
	}
}

func TestGroupByStatus(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := execute(t, e, "groupByStatus", ``)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if len(res.StatusGroups) != 2 {
		t.Fatalf("expected 2 status groups, got %+v", res.StatusGroups)
	}
	// Declaration order: active before pending.
	if res.StatusGroups[0].Status != recordx.StatusActive || res.StatusGroups[0].ContractCount != 2 {
		t.Fatalf("unexpected first group: %+v", res.StatusGroups[0])
	}
	if res.StatusGroups[0].TotalAmount != 370000 {
		t.Fatalf("expected active total 370000, got %v", res.StatusGroups[0].TotalAmount)
	}

	res = execute(t, e, "groupByStatus", `{"includeAmount":false}`)
	if !res.Success || res.StatusGroups[0].TotalAmount != 0 {
		t.Fatalf("expected amounts skipped, got %+v", res.StatusGroups[0])
	}
}

func TestZeroNowFallsBackToExecutorClock(t *testing.T) {
	t.Parallel()

	e, _ := seededExecutor(t)
	res := e.Execute(context.Background(), contract.OperationRequest{
		Name:         "getContractById",
		RawArguments: `{"id":"c-1"}`,
	}, time.Time{})
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Contract.DaysRemaining != 183 {
		t.Fatalf("expected clock-anchored days remaining 183, got %d", res.Contract.DaysRemaining)
	}
}
