package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
	"github.com/contractdesk/contractdesk/agent/registry"
)

// decodeArgs strictly parses the raw argument text for one operation.
// Unknown keys are rejected so a hallucinated parameter fails loudly
// instead of being silently dropped. Empty text decodes as all-defaults.
func decodeArgs(raw string, dst any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func validateFilter(f contract.FilterCondition) error {
	if !contains(registry.Columns, f.Column) {
		return fmt.Errorf("unknown column %q", f.Column)
	}
	if !contains(registry.Operators, f.Operator) {
		return fmt.Errorf("unknown operator %q", f.Operator)
	}
	if f.Value == nil {
		return fmt.Errorf("filter on %q is missing a value", f.Column)
	}
	if f.Operator == "between" && f.Value2 == nil {
		return fmt.Errorf("between filter on %q needs value2", f.Column)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type filterTableArgs struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
	Value2   any    `json:"value2"`
}

func (a filterTableArgs) condition() contract.FilterCondition {
	return contract.FilterCondition{
		Column:   a.Column,
		Operator: a.Operator,
		Value:    a.Value,
		Value2:   a.Value2,
	}
}

func (a filterTableArgs) validate() error {
	return validateFilter(a.condition())
}

type filterMultipleArgs struct {
	Filters []filterTableArgs `json:"filters"`
}

func (a filterMultipleArgs) conditions() []contract.FilterCondition {
	out := make([]contract.FilterCondition, 0, len(a.Filters))
	for _, f := range a.Filters {
		out = append(out, f.condition())
	}
	return out
}

func (a filterMultipleArgs) validate() error {
	if len(a.Filters) == 0 {
		return fmt.Errorf("filters must not be empty")
	}
	for i, f := range a.Filters {
		if err := f.validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i+1, err)
		}
	}
	return nil
}

type sortTableArgs struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

func (a sortTableArgs) validate() error {
	if !contains(registry.Columns, a.Column) {
		return fmt.Errorf("unknown column %q", a.Column)
	}
	if !contains(registry.SortDirections, a.Direction) {
		return fmt.Errorf("direction must be asc or desc, got %q", a.Direction)
	}
	return nil
}

type searchTableArgs struct {
	Query         string   `json:"query"`
	Columns       []string `json:"columns"`
	CaseSensitive bool     `json:"caseSensitive"`
}

func (a searchTableArgs) validate() error {
	if strings.TrimSpace(a.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	for _, col := range a.Columns {
		if !contains(registry.SearchColumns, col) {
			return fmt.Errorf("column %q is not searchable", col)
		}
	}
	return nil
}

type setPageSizeArgs struct {
	PageSize int `json:"pageSize"`
}

func (a setPageSizeArgs) validate() error {
	for _, size := range registry.PageSizes {
		if a.PageSize == size {
			return nil
		}
	}
	return fmt.Errorf("pageSize must be one of 10, 20, 50, 100, got %d", a.PageSize)
}

type goToPageArgs struct {
	PageNumber int `json:"pageNumber"`
}

func (a goToPageArgs) validate() error {
	if a.PageNumber < 1 {
		return fmt.Errorf("pageNumber must be at least 1, got %d", a.PageNumber)
	}
	return nil
}

type idArgs struct {
	ID string `json:"id"`
}

func (a idArgs) validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("id must not be empty")
	}
	return nil
}

type getContractsArgs struct {
	IncludeCalculations *bool `json:"includeCalculations"`
}

func (a getContractsArgs) withCalculations() bool {
	return a.IncludeCalculations == nil || *a.IncludeCalculations
}

type getContractArgs struct {
	ID                  string `json:"id"`
	IncludeCalculations *bool  `json:"includeCalculations"`
}

func (a getContractArgs) validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("id must not be empty")
	}
	return nil
}

func (a getContractArgs) withCalculations() bool {
	return a.IncludeCalculations == nil || *a.IncludeCalculations
}

type addContractArgs struct {
	Name             string         `json:"name"`
	CounterpartyName string         `json:"counterpartyName"`
	Amount           *float64       `json:"amount"`
	StartDate        string         `json:"startDate"`
	EndDate          string         `json:"endDate"`
	Status           recordx.Status `json:"status"`
}

func (a addContractArgs) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if strings.TrimSpace(a.CounterpartyName) == "" {
		return fmt.Errorf("counterpartyName must not be empty")
	}
	if a.Amount == nil {
		return fmt.Errorf("amount is required")
	}
	if err := recordx.ValidateDate(a.StartDate); err != nil {
		return fmt.Errorf("startDate: %w", err)
	}
	if err := recordx.ValidateDate(a.EndDate); err != nil {
		return fmt.Errorf("endDate: %w", err)
	}
	if a.Status != "" && !a.Status.Valid() {
		return fmt.Errorf("invalid status %q", a.Status)
	}
	return nil
}

type updateContractArgs struct {
	ID      string        `json:"id"`
	Updates recordx.Patch `json:"updates"`
}

func (a updateContractArgs) validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("id must not be empty")
	}
	if a.Updates.IsEmpty() {
		return fmt.Errorf("updates must change at least one field")
	}
	return a.Updates.Validate()
}

type updateByNameArgs struct {
	Name    string        `json:"name"`
	Updates recordx.Patch `json:"updates"`
}

func (a updateByNameArgs) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if a.Updates.IsEmpty() {
		return fmt.Errorf("updates must change at least one field")
	}
	return a.Updates.Validate()
}

type nameArgs struct {
	Name string `json:"name"`
}

func (a nameArgs) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

type idsArgs struct {
	IDs []string `json:"ids"`
}

func (a idsArgs) validate() error {
	if len(a.IDs) == 0 {
		return fmt.Errorf("ids must not be empty")
	}
	for _, id := range a.IDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("ids must not contain empty values")
		}
	}
	return nil
}

type aggregateArgs struct {
	Filters []filterTableArgs `json:"filters"`
}

func (a aggregateArgs) conditions() []contract.FilterCondition {
	if len(a.Filters) == 0 {
		return nil
	}
	out := make([]contract.FilterCondition, 0, len(a.Filters))
	for _, f := range a.Filters {
		out = append(out, f.condition())
	}
	return out
}

func (a aggregateArgs) validate() error {
	for i, f := range a.Filters {
		if err := f.validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i+1, err)
		}
	}
	return nil
}

type contractIDArgs struct {
	ContractID string `json:"contractId"`
}

type expiringArgs struct {
	DaysAhead *int `json:"daysAhead"`
}

func (a expiringArgs) validate() error {
	if a.DaysAhead != nil && *a.DaysAhead < 1 {
		return fmt.Errorf("daysAhead must be at least 1, got %d", *a.DaysAhead)
	}
	return nil
}

func (a expiringArgs) horizon() int {
	if a.DaysAhead == nil {
		return 30
	}
	return *a.DaysAhead
}

type groupByClientArgs struct {
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
}

func (a groupByClientArgs) validate() error {
	if a.SortBy != "" && !contains(registry.ClientGroupSortKeys, a.SortBy) {
		return fmt.Errorf("unknown sortBy %q", a.SortBy)
	}
	if a.SortDirection != "" && !contains(registry.SortDirections, a.SortDirection) {
		return fmt.Errorf("sortDirection must be asc or desc, got %q", a.SortDirection)
	}
	return nil
}

func (a groupByClientArgs) key() string {
	if a.SortBy == "" {
		return "totalAmount"
	}
	return a.SortBy
}

func (a groupByClientArgs) descending() bool {
	return a.SortDirection != "asc"
}

type groupByStatusArgs struct {
	IncludeAmount *bool `json:"includeAmount"`
}

func (a groupByStatusArgs) withAmount() bool {
	return a.IncludeAmount == nil || *a.IncludeAmount
}
