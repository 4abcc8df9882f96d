// Package executor validates and runs the operations the model requests.
// Every outcome, including validation failures and store errors, is
// reported inside the result envelope; Execute never returns a Go error
// and never panics on model-supplied input.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/contractdesk/contractdesk/agent/contract"
	recordx "github.com/contractdesk/contractdesk/agent/record"
	"github.com/contractdesk/contractdesk/agent/registry"
	"github.com/contractdesk/contractdesk/pkg/metrics"
)

// handler runs one operation against raw argument text, anchored on now.
type handler func(ctx context.Context, raw string, now time.Time) contract.OperationResult

// Executor dispatches operation requests against a contract store.
type Executor struct {
	store    recordx.Store
	now      func() time.Time
	newID    func() string
	handlers map[string]handler
}

type Option func(*Executor)

// WithClock fixes the executor's clock; tests use it to pin derived-field
// math to a known date.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides id generation for new contracts.
func WithIDGenerator(newID func() string) Option {
	return func(e *Executor) {
		if newID != nil {
			e.newID = newID
		}
	}
}

func New(store recordx.Store, opts ...Option) *Executor {
	e := &Executor{
		store: store,
		now:   recordx.Today,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = e.buildHandlers()
	return e
}

// buildHandlers maps every catalog operation to its implementation.
// Handlers that never consult the clock drop the now argument here.
func (e *Executor) buildHandlers() map[string]handler {
	anchored := func(h func(context.Context, string, time.Time) contract.OperationResult) handler {
		return h
	}
	plain := func(h func(context.Context, string) contract.OperationResult) handler {
		return func(ctx context.Context, raw string, _ time.Time) contract.OperationResult {
			return h(ctx, raw)
		}
	}
	return map[string]handler{
		registry.OpFilterTable:           plain(e.filterTable),
		registry.OpFilterMultipleColumns: plain(e.filterMultipleColumns),
		registry.OpClearFilters:          plain(e.clearFilters),
		registry.OpSortTable:             plain(e.sortTable),
		registry.OpClearSorting:          plain(e.clearSorting),
		registry.OpSearchTable:           plain(e.searchTable),
		registry.OpSetPageSize:           plain(e.setPageSize),
		registry.OpGoToPage:              plain(e.goToPage),

		registry.OpGetContracts:         anchored(e.getContracts),
		registry.OpGetContractByID:      anchored(e.getContractByID),
		registry.OpAddContract:          anchored(e.addContract),
		registry.OpUpdateContract:       anchored(e.updateContract),
		registry.OpUpdateContractByName: anchored(e.updateContractByName),
		registry.OpDeleteContract:       anchored(e.deleteContract),
		registry.OpDeleteContractByName: anchored(e.deleteContractByName),
		registry.OpDeleteContracts:      anchored(e.deleteContracts),

		registry.OpCalculateTotalValue:   plain(e.calculateTotalValue),
		registry.OpCalculateAverageValue: plain(e.calculateAverageValue),
		registry.OpCalculateDuration:     anchored(e.calculateContractDuration),
		registry.OpCalculateMonthlyValue: anchored(e.calculateMonthlyValue),
		registry.OpGetExpiringContracts:  anchored(e.getExpiringContracts),
		registry.OpGroupByClient:         plain(e.groupByClient),
		registry.OpGroupByStatus:         plain(e.groupByStatus),
	}
}

// Execute runs one operation and reports the outcome in the envelope.
// A zero now falls back to the executor's clock.
func (e *Executor) Execute(ctx context.Context, req contract.OperationRequest, now time.Time) contract.OperationResult {
	if now.IsZero() {
		now = e.now()
	}

	result := e.dispatch(ctx, req, now)
	metrics.ObserveOperation(req.Name, result.Success)
	if !result.Success {
		log.Debug().
			Str("operation", req.Name).
			Str("request_id", req.RequestID).
			Str("error", result.Error).
			Msg("operation failed")
	}
	return result
}

func (e *Executor) dispatch(ctx context.Context, req contract.OperationRequest, now time.Time) contract.OperationResult {
	h, ok := e.handlers[req.Name]
	if !ok {
		return contract.OperationResult{
			Success: false,
			Error:   fmt.Sprintf("unknown operation: %s", req.Name),
		}
	}
	return h(ctx, req.RawArguments, now)
}

// invalidArgs reports an argument payload the decoder rejected.
func invalidArgs(err error) contract.OperationResult {
	return contract.OperationResult{
		Success: false,
		Error:   "invalid arguments",
		Details: err.Error(),
	}
}

func failure(err error) contract.OperationResult {
	return contract.OperationResult{
		Success: false,
		Error:   err.Error(),
	}
}

func notFound(msg string) contract.OperationResult {
	return contract.OperationResult{
		Success: false,
		Error:   msg,
	}
}

func storeFailure(err error) contract.OperationResult {
	return contract.OperationResult{
		Success: false,
		Error:   "contract store unavailable",
		Details: err.Error(),
	}
}

var _ contract.OperationExecutor = (*Executor)(nil)
