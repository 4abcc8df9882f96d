// Package registry holds the fixed catalog of operations the model may
// request. It is pure data: adding an operation here plus one handler in
// the executor is the whole extension surface.
package registry

import (
	"github.com/cloudwego/eino/schema"

	recordx "github.com/contractdesk/contractdesk/agent/record"
)

// Operation names. These are the only names the executor dispatches.
const (
	OpFilterTable           = "filterTable"
	OpFilterMultipleColumns = "filterMultipleColumns"
	OpClearFilters          = "clearFilters"
	OpSortTable             = "sortTable"
	OpClearSorting          = "clearSorting"
	OpSearchTable           = "searchTable"
	OpSetPageSize           = "setPageSize"
	OpGoToPage              = "goToPage"

	OpGetContracts         = "getContracts"
	OpGetContractByID      = "getContractById"
	OpAddContract          = "addContract"
	OpUpdateContract       = "updateContract"
	OpUpdateContractByName = "updateContractByName"
	OpDeleteContract       = "deleteContract"
	OpDeleteContractByName = "deleteContractByName"
	OpDeleteContracts      = "deleteContracts"

	OpCalculateTotalValue   = "calculateTotalValue"
	OpCalculateAverageValue = "calculateAverageValue"
	OpCalculateDuration     = "calculateContractDuration"
	OpCalculateMonthlyValue = "calculateMonthlyValue"
	OpGetExpiringContracts  = "getExpiringContracts"
	OpGroupByClient         = "groupByClient"
	OpGroupByStatus         = "groupByStatus"
)

// Columns the model may filter or sort on. Derived fields are not
// addressable on purpose: they are computed, never queried.
var Columns = []string{"name", "counterpartyName", "amount", "startDate", "endDate", "status"}

// SearchColumns are the text columns searchTable may target.
var SearchColumns = []string{"name", "counterpartyName"}

// Operators is the closed comparison-operator set.
var Operators = []string{
	"equals",
	"notEquals",
	"greaterThan",
	"lessThan",
	"greaterThanOrEqual",
	"lessThanOrEqual",
	"contains",
	"startsWith",
	"endsWith",
	"between",
}

// SortDirections is the closed sort-direction set.
var SortDirections = []string{"asc", "desc"}

// PageSizes is the closed page-size set.
var PageSizes = []int{10, 20, 50, 100}

// ClientGroupSortKeys are accepted sortBy values for groupByClient.
var ClientGroupSortKeys = []string{"totalAmount", "averageAmount", "contractCount", "counterpartyName"}

var definitions = buildDefinitions()

var byName = func() map[string]*schema.ToolInfo {
	m := make(map[string]*schema.ToolInfo, len(definitions))
	for _, def := range definitions {
		m[def.Name] = def
	}
	return m
}()

// Definitions returns the full catalog exposed to the model on every call.
func Definitions() []*schema.ToolInfo {
	return definitions
}

// Lookup resolves a definition by operation name.
func Lookup(name string) (*schema.ToolInfo, bool) {
	def, ok := byName[name]
	return def, ok
}

// Names lists all operation names in catalog order.
func Names() []string {
	out := make([]string, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def.Name)
	}
	return out
}

func filterSubParams() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"column": {
			Type:     schema.String,
			Desc:     "Column to filter on",
			Enum:     Columns,
			Required: true,
		},
		"operator": {
			Type:     schema.String,
			Desc:     "Comparison operator",
			Enum:     Operators,
			Required: true,
		},
		"value": {
			Type:     schema.String,
			Desc:     "Value to compare against. Send a plain number for amount comparisons.",
			Required: true,
		},
		"value2": {
			Type: schema.String,
			Desc: "Upper bound, required only for the between operator",
		},
	}
}

func updateSubParams() map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"name":             {Type: schema.String, Desc: "New contract name"},
		"counterpartyName": {Type: schema.String, Desc: "New counterparty name"},
		"amount":           {Type: schema.Number, Desc: "New total amount"},
		"startDate":        {Type: schema.String, Desc: "New start date, YYYY-MM-DD"},
		"endDate":          {Type: schema.String, Desc: "New end date, YYYY-MM-DD"},
		"status":           {Type: schema.String, Desc: "New status", Enum: recordx.Statuses()},
	}
}

func buildDefinitions() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: OpFilterTable,
			Desc: "Filter contract rows by one column and condition. " +
				"Examples: amount greaterThan 100000; status equals active; " +
				"counterpartyName contains Acme; endDate greaterThan 2024-12-31.",
			ParamsOneOf: schema.NewParamsOneOfByParams(filterSubParams()),
		},
		{
			Name: OpFilterMultipleColumns,
			Desc: "Apply several filters at once with AND logic; every condition must hold.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"filters": {
					Type:     schema.Array,
					Desc:     "Filter conditions, all applied together",
					Required: true,
					ElemInfo: &schema.ParameterInfo{
						Type:      schema.Object,
						SubParams: filterSubParams(),
					},
				},
			}),
		},
		{
			Name:        OpClearFilters,
			Desc:        "Remove every active filter so all contracts show again.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: OpSortTable,
			Desc: "Sort the contracts table by one column.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"column": {
					Type:     schema.String,
					Desc:     "Column to sort by",
					Enum:     Columns,
					Required: true,
				},
				"direction": {
					Type:     schema.String,
					Desc:     "Sort direction",
					Enum:     SortDirections,
					Required: true,
				},
			}),
		},
		{
			Name:        OpClearSorting,
			Desc:        "Remove sorting and return the table to default order.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: OpSearchTable,
			Desc: "Search the contract and counterparty name columns for a keyword.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "Search term",
					Required: true,
				},
				"columns": {
					Type:     schema.Array,
					Desc:     "Columns to search; defaults to both name columns",
					ElemInfo: &schema.ParameterInfo{Type: schema.String, Enum: SearchColumns},
				},
				"caseSensitive": {
					Type: schema.Boolean,
					Desc: "Whether the search is case-sensitive; defaults to false",
				},
			}),
		},
		{
			Name: OpSetPageSize,
			Desc: "Change how many contracts show per page. Allowed sizes: 10, 20, 50, 100.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"pageSize": {
					Type:     schema.Integer,
					Desc:     "Rows per page, one of 10, 20, 50, 100",
					Required: true,
				},
			}),
		},
		{
			Name: OpGoToPage,
			Desc: "Navigate to a specific page of the table.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"pageNumber": {
					Type:     schema.Integer,
					Desc:     "Page number, 1-indexed",
					Required: true,
				},
			}),
		},
		{
			Name: OpGetContracts,
			Desc: "Read all contract rows. Use before operations that need to see existing data.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"includeCalculations": {
					Type: schema.Boolean,
					Desc: "Include derived duration, days-remaining and monthly-amount fields; defaults to true",
				},
			}),
		},
		{
			Name: OpGetContractByID,
			Desc: "Read one contract's full details by id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"id": {
					Type:     schema.String,
					Desc:     "Unique contract id",
					Required: true,
				},
				"includeCalculations": {
					Type: schema.Boolean,
					Desc: "Include derived duration, days-remaining and monthly-amount fields; defaults to true",
				},
			}),
		},
		{
			Name: OpAddContract,
			Desc: "Create a new contract row.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Contract name or title",
					Required: true,
				},
				"counterpartyName": {
					Type:     schema.String,
					Desc:     "Client or company the contract is with",
					Required: true,
				},
				"amount": {
					Type:     schema.Number,
					Desc:     "Total contract amount",
					Required: true,
				},
				"startDate": {
					Type:     schema.String,
					Desc:     "Start date, YYYY-MM-DD",
					Required: true,
				},
				"endDate": {
					Type:     schema.String,
					Desc:     "End date, YYYY-MM-DD",
					Required: true,
				},
				"status": {
					Type: schema.String,
					Desc: "Initial status; defaults to pending",
					Enum: recordx.Statuses(),
				},
			}),
		},
		{
			Name: OpUpdateContract,
			Desc: "Update fields of an existing contract identified by id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"id": {
					Type:     schema.String,
					Desc:     "Unique contract id",
					Required: true,
				},
				"updates": {
					Type:      schema.Object,
					Desc:      "Fields to change",
					Required:  true,
					SubParams: updateSubParams(),
				},
			}),
		},
		{
			Name: OpUpdateContractByName,
			Desc: "Update a contract located by (partial) name when no id is known. " +
				"Matches case-insensitively; the first match in newest-first order wins.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Full or partial contract name",
					Required: true,
				},
				"updates": {
					Type:      schema.Object,
					Desc:      "Fields to change",
					Required:  true,
					SubParams: updateSubParams(),
				},
			}),
		},
		{
			Name: OpDeleteContract,
			Desc: "Delete a contract by id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"id": {
					Type:     schema.String,
					Desc:     "Unique contract id",
					Required: true,
				},
			}),
		},
		{
			Name: OpDeleteContractByName,
			Desc: "Delete a contract located by (partial) name when no id is known.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Full or partial contract name",
					Required: true,
				},
			}),
		},
		{
			Name: OpDeleteContracts,
			Desc: "Delete several contracts at once by id. Read the table first to collect ids.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"ids": {
					Type:     schema.Array,
					Desc:     "Contract ids to delete",
					Required: true,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
				},
			}),
		},
		{
			Name: OpCalculateTotalValue,
			Desc: "Sum contract amounts, optionally restricted by filters.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"filters": {
					Type: schema.Array,
					Desc: "Optional filters applied before summing",
					ElemInfo: &schema.ParameterInfo{
						Type:      schema.Object,
						SubParams: filterSubParams(),
					},
				},
			}),
		},
		{
			Name: OpCalculateAverageValue,
			Desc: "Average contract amount, optionally restricted by filters.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"filters": {
					Type: schema.Array,
					Desc: "Optional filters applied before averaging",
					ElemInfo: &schema.ParameterInfo{
						Type:      schema.Object,
						SubParams: filterSubParams(),
					},
				},
			}),
		},
		{
			Name: OpCalculateDuration,
			Desc: "Duration in days for one contract, or for every contract when no id is given.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"contractId": {
					Type: schema.String,
					Desc: "Optional contract id; omit for all contracts",
				},
			}),
		},
		{
			Name: OpCalculateMonthlyValue,
			Desc: "Monthly amount (total amount over duration in months) for one or all contracts.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"contractId": {
					Type: schema.String,
					Desc: "Optional contract id; omit for all contracts",
				},
			}),
		},
		{
			Name: OpGetExpiringContracts,
			Desc: "Contracts ending within the next N days (still running today).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"daysAhead": {
					Type: schema.Integer,
					Desc: "How many days to look ahead; defaults to 30",
				},
			}),
		},
		{
			Name: OpGroupByClient,
			Desc: "Group contracts by counterparty with count, total and average amount per group.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"sortBy": {
					Type: schema.String,
					Desc: "Group sort key; defaults to totalAmount",
					Enum: ClientGroupSortKeys,
				},
				"sortDirection": {
					Type: schema.String,
					Desc: "Sort direction; defaults to desc",
					Enum: SortDirections,
				},
			}),
		},
		{
			Name: OpGroupByStatus,
			Desc: "Group contracts by status with per-status counts.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"includeAmount": {
					Type: schema.Boolean,
					Desc: "Also total the amounts per status; defaults to true",
				},
			}),
		},
	}
}
