package contract

import (
	"context"
	"time"
)

// OperationExecutor validates and dispatches one operation request.
// Implementations never return a Go error: every failure is reported
// inside the envelope. The now argument anchors derived-field math; a
// zero value means "use the executor's own clock".
type OperationExecutor interface {
	Execute(ctx context.Context, req OperationRequest, now time.Time) OperationResult
}

// ConversationRunner handles one inbound conversation turn end to end.
// currentDate optionally anchors relative-date reasoning (YYYY-MM-DD).
type ConversationRunner interface {
	Run(ctx context.Context, messages []ChatMessage, currentDate string) (*RunResult, error)
}
