package contract

import (
	recordx "github.com/contractdesk/contractdesk/agent/record"
)

// Role is a conversation message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// ChatMessage is one turn of the model-facing conversation. History is
// caller-owned; the orchestrator only appends within a single run.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// OperationRequests is set on assistant turns that asked for tools.
	OperationRequests []OperationRequest `json:"operationRequests,omitempty"`
	// RespondsTo ties a tool turn back to the request it answers.
	RespondsTo string `json:"respondsTo,omitempty"`
}

// OperationRequest is a model-issued instruction to run one operation.
// RawArguments is opaque text until the executor parses it.
type OperationRequest struct {
	RequestID    string `json:"requestId"`
	Name         string `json:"name"`
	RawArguments string `json:"arguments"`
}

// FilterCondition is a normalized table filter.
type FilterCondition struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
	Value2   any    `json:"value2,omitempty"`
}

// SortSpec is a normalized table sort.
type SortSpec struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// SearchSpec is a normalized text search across name columns.
type SearchSpec struct {
	Query         string   `json:"query"`
	Columns       []string `json:"columns"`
	CaseSensitive bool     `json:"caseSensitive"`
}

// OperationResult is the uniform envelope every operation returns.
// Success is the single source of truth; payload presence never implies it.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`

	// View-intent payload.
	Action     string            `json:"action,omitempty"`
	Filter     *FilterCondition  `json:"filter,omitempty"`
	Filters    []FilterCondition `json:"filters,omitempty"`
	Sort       *SortSpec         `json:"sort,omitempty"`
	Search     *SearchSpec       `json:"search,omitempty"`
	PageSize   int               `json:"pageSize,omitempty"`
	PageNumber int               `json:"pageNumber,omitempty"`

	// Record payload.
	ID              string                     `json:"id,omitempty"`
	Contract        *recordx.WithCalculations  `json:"contract,omitempty"`
	Contracts       []recordx.WithCalculations `json:"contracts,omitempty"`
	DeletedContract *recordx.WithCalculations  `json:"deletedContract,omitempty"`
	Count           int                        `json:"count,omitempty"`
	DeletedCount    *int64                     `json:"deletedCount,omitempty"`

	// Aggregate payload.
	TotalAmount    *float64                     `json:"totalAmount,omitempty"`
	AverageAmount  *float64                     `json:"averageAmount,omitempty"`
	ContractCount  *int                         `json:"contractCount,omitempty"`
	DurationDays   *int                         `json:"durationDays,omitempty"`
	Durations      []recordx.DurationEntry      `json:"durations,omitempty"`
	MonthlyAmount  *float64                     `json:"monthlyAmount,omitempty"`
	MonthlyAmounts []recordx.MonthlyAmountEntry `json:"monthlyAmounts,omitempty"`
	ClientGroups   []recordx.ClientGroup        `json:"clientGroups,omitempty"`
	StatusGroups   []recordx.StatusGroup        `json:"statusGroups,omitempty"`
	ClientCount    int                          `json:"clientCount,omitempty"`
}

// RunResult is the structured outcome of one orchestration run. Fields of
// the last successful tool result are surfaced at the top level so callers
// can react without digging through ToolResults.
type RunResult struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	ToolResults []OperationResult `json:"toolResults,omitempty"`

	Action     string            `json:"action,omitempty"`
	Filter     *FilterCondition  `json:"filter,omitempty"`
	Filters    []FilterCondition `json:"filters,omitempty"`
	Sort       *SortSpec         `json:"sort,omitempty"`
	Search     *SearchSpec       `json:"search,omitempty"`
	PageSize   int               `json:"pageSize,omitempty"`
	PageNumber int               `json:"pageNumber,omitempty"`

	Contract  *recordx.WithCalculations  `json:"contract,omitempty"`
	Contracts []recordx.WithCalculations `json:"contracts,omitempty"`
}
