// Package orchestrator drives one conversation turn through an explicit
// state machine: draft the conversation, ask the model, dispatch the
// operations it requests, and summarize. Tool dispatch is bounded by a
// fixed budget so a model that keeps requesting operations cannot loop
// forever.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/contractdesk/contractdesk/agent/contract"
	"github.com/contractdesk/contractdesk/agent/prompt"
	recordx "github.com/contractdesk/contractdesk/agent/record"
	"github.com/contractdesk/contractdesk/agent/registry"
	"github.com/contractdesk/contractdesk/pkg/metrics"
)

// DispatchBudget caps how many tool rounds one run may spend.
const DispatchBudget = 5

type runState int

const (
	stateDrafting runState = iota
	stateAwaitingModel
	stateDispatching
	stateSummarizing
	stateBudgetExhausted
	stateDone
)

func (s runState) String() string {
	switch s {
	case stateDrafting:
		return "drafting"
	case stateAwaitingModel:
		return "awaiting_model"
	case stateDispatching:
		return "dispatching"
	case stateSummarizing:
		return "summarizing"
	case stateBudgetExhausted:
		return "budget_exhausted"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Orchestrator owns the bound and unbound views of one chat model.
type Orchestrator struct {
	baseModel einomodel.ToolCallingChatModel
	toolModel einomodel.ToolCallingChatModel
	executor  contract.OperationExecutor
}

// New binds the operation catalog to the chat model once, up front.
func New(chatModel einomodel.ToolCallingChatModel, exec contract.OperationExecutor) (*Orchestrator, error) {
	toolModel, err := chatModel.WithTools(registry.Definitions())
	if err != nil {
		return nil, fmt.Errorf("%w: bind operation catalog: %v", contract.ErrModelInvoke, err)
	}
	return &Orchestrator{
		baseModel: chatModel,
		toolModel: toolModel,
		executor:  exec,
	}, nil
}

// run carries the mutable state of a single conversation turn.
type run struct {
	conversation []*schema.Message
	remaining    int
	now          time.Time

	results    []contract.OperationResult
	lastResult *contract.OperationResult
	answer     string
}

// Run executes one conversation turn. Provider failures are terminal and
// wrap ErrModelInvoke; malformed input wraps ErrValidation.
func (o *Orchestrator) Run(ctx context.Context, messages []contract.ChatMessage, currentDate string) (*contract.RunResult, error) {
	started := time.Now()

	r, err := o.draft(messages, currentDate)
	if err != nil {
		return nil, err
	}

	state := stateAwaitingModel
	for {
		switch state {
		case stateAwaitingModel:
			state, err = o.awaitModel(ctx, r)
		case stateDispatching:
			state = o.dispatch(ctx, r)
		case stateSummarizing:
			state = o.summarize(ctx, r)
		case stateBudgetExhausted:
			metrics.RunsTotal.WithLabelValues(state.String()).Inc()
			metrics.RunDuration.Observe(time.Since(started).Seconds())
			return o.finish(r, false, budgetMessage(r)), nil
		case stateDone:
			metrics.RunsTotal.WithLabelValues(state.String()).Inc()
			metrics.RunDuration.Observe(time.Since(started).Seconds())
			return o.finish(r, true, r.answer), nil
		}
		if err != nil {
			metrics.RunsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}
}

// draft validates the inbound history and seeds the model conversation.
func (o *Orchestrator) draft(messages []contract.ChatMessage, currentDate string) (*run, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: messages must not be empty", contract.ErrValidation)
	}

	now := time.Time{}
	if strings.TrimSpace(currentDate) != "" {
		parsed, err := time.Parse(recordx.DateLayout, currentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: currentDate %q, want YYYY-MM-DD", contract.ErrValidation, currentDate)
		}
		now = parsed
	}

	conversation := make([]*schema.Message, 0, len(messages)+1)
	conversation = append(conversation, schema.SystemMessage(prompt.System(currentDate)))
	for i, m := range messages {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("%w: message %d has invalid role %q", contract.ErrValidation, i, m.Role)
		}
		switch m.Role {
		case contract.RoleUser:
			conversation = append(conversation, schema.UserMessage(m.Content))
		case contract.RoleAssistant:
			conversation = append(conversation, schema.AssistantMessage(m.Content, toToolCalls(m.OperationRequests)))
		case contract.RoleSystem:
			conversation = append(conversation, schema.SystemMessage(m.Content))
		case contract.RoleTool:
			conversation = append(conversation, schema.ToolMessage(m.Content, m.RespondsTo))
		}
	}

	return &run{
		conversation: conversation,
		remaining:    DispatchBudget,
		now:          now,
	}, nil
}

// toToolCalls rebuilds provider tool calls from a replayed assistant
// turn, so a following tool message still references a real request id.
func toToolCalls(reqs []contract.OperationRequest) []schema.ToolCall {
	if len(reqs) == 0 {
		return nil
	}
	calls := make([]schema.ToolCall, 0, len(reqs))
	for _, req := range reqs {
		calls = append(calls, schema.ToolCall{
			ID:   req.RequestID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      req.Name,
				Arguments: req.RawArguments,
			},
		})
	}
	return calls
}

func (o *Orchestrator) awaitModel(ctx context.Context, r *run) (runState, error) {
	msg, err := o.toolModel.Generate(ctx, r.conversation)
	metrics.ObserveModelCall(err)
	if err != nil {
		return stateDone, fmt.Errorf("%w: %v", contract.ErrModelInvoke, err)
	}
	if msg == nil {
		return stateDone, fmt.Errorf("%w: model returned no message", contract.ErrSchemaViolation)
	}

	r.conversation = append(r.conversation, msg)
	if len(msg.ToolCalls) == 0 {
		r.answer = strings.TrimSpace(msg.Content)
		if r.answer == "" {
			return stateDone, fmt.Errorf("%w: model returned neither text nor tool calls", contract.ErrSchemaViolation)
		}
		return stateDone, nil
	}
	return stateDispatching, nil
}

// dispatch runs one round: every operation of the latest assistant turn,
// sequentially and in request order, each answered by its own tool
// message.
func (o *Orchestrator) dispatch(ctx context.Context, r *run) runState {
	r.remaining--
	last := r.conversation[len(r.conversation)-1]

	for _, call := range last.ToolCalls {
		req := contract.OperationRequest{
			RequestID:    call.ID,
			Name:         call.Function.Name,
			RawArguments: call.Function.Arguments,
		}
		result := o.executor.Execute(ctx, req, r.now)
		r.results = append(r.results, result)
		r.lastResult = &r.results[len(r.results)-1]

		payload, err := json.Marshal(result)
		if err != nil {
			// Result envelopes are plain data; this only fires on a bug.
			log.Error().Err(err).Str("operation", req.Name).Msg("marshal operation result")
			payload = []byte(`{"success":false,"error":"internal result encoding failure"}`)
		}
		r.conversation = append(r.conversation, schema.ToolMessage(string(payload), call.ID))
	}

	if r.lastResult != nil && r.lastResult.Success {
		return stateSummarizing
	}
	if r.remaining == 0 {
		return stateBudgetExhausted
	}
	return stateAwaitingModel
}

// summarize asks the unbound model for a closing message. A summary
// failure never sinks a run whose operations already succeeded; the last
// result's own message stands in.
func (o *Orchestrator) summarize(ctx context.Context, r *run) runState {
	msg, err := o.baseModel.Generate(ctx, r.conversation)
	metrics.ObserveModelCall(err)
	if err == nil && msg != nil && strings.TrimSpace(msg.Content) != "" {
		r.answer = strings.TrimSpace(msg.Content)
		return stateDone
	}
	if err != nil {
		log.Warn().Err(err).Msg("summary generation failed, falling back to operation message")
	}
	if r.lastResult != nil && r.lastResult.Message != "" {
		r.answer = r.lastResult.Message
	} else {
		r.answer = "Done."
	}
	return stateDone
}

func budgetMessage(r *run) string {
	if r.lastResult != nil && r.lastResult.Error != "" {
		return fmt.Sprintf("Stopped after %d operation rounds without success. Last error: %s", DispatchBudget, r.lastResult.Error)
	}
	return fmt.Sprintf("Stopped after %d operation rounds without success.", DispatchBudget)
}

// finish assembles the run result. Only successful runs surface the last
// successful operation's payload at the top level; an exhausted run
// reports the failure plain, with the per-operation detail left in
// ToolResults.
func (o *Orchestrator) finish(r *run, success bool, message string) *contract.RunResult {
	out := &contract.RunResult{
		Success:     success,
		Message:     message,
		ToolResults: r.results,
	}
	if !success {
		return out
	}

	var lastOK *contract.OperationResult
	for i := len(r.results) - 1; i >= 0; i-- {
		if r.results[i].Success {
			lastOK = &r.results[i]
			break
		}
	}
	if lastOK != nil {
		out.Action = lastOK.Action
		out.Filter = lastOK.Filter
		out.Filters = lastOK.Filters
		out.Sort = lastOK.Sort
		out.Search = lastOK.Search
		out.PageSize = lastOK.PageSize
		out.PageNumber = lastOK.PageNumber
		out.Contract = lastOK.Contract
		out.Contracts = lastOK.Contracts
	}
	return out
}

var _ contract.ConversationRunner = (*Orchestrator)(nil)
