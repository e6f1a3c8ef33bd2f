// Package provider defines the contract between a declarative orchestrator
// and a resource provider handler: the lifecycle actions, the progress event
// vocabulary, and the dispatch over a handler implementation.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Action is one of the five lifecycle operations an orchestrator may request
// for a declared resource.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionList   Action = "LIST"
)

// Actions returns the closed set of valid actions.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList}
}

// ParseAction converts a string into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList:
		return a, nil
	}
	return "", fmt.Errorf("invalid action %q, must be one of %v", s, Actions())
}

// OperationStatus describes the terminal (or continuation) state of one
// handler invocation.
type OperationStatus string

const (
	StatusInProgress OperationStatus = "IN_PROGRESS"
	StatusSuccess    OperationStatus = "SUCCESS"
	StatusFailed     OperationStatus = "FAILED"
)

// ErrorCode classifies a failed invocation for the orchestrator. External
// API outcomes (already-exists, not-found, throttled) map onto dedicated
// codes; everything else is an internal failure.
type ErrorCode string

const (
	ErrorCodeInvalidRequest  ErrorCode = "InvalidRequest"
	ErrorCodeAlreadyExists   ErrorCode = "AlreadyExists"
	ErrorCodeNotFound        ErrorCode = "NotFound"
	ErrorCodeNotUpdatable    ErrorCode = "NotUpdatable"
	ErrorCodeThrottling      ErrorCode = "Throttling"
	ErrorCodeInternalFailure ErrorCode = "InternalFailure"
)

// Request carries one lifecycle invocation. The resource states are raw
// JSON documents; each handler unmarshals them into its own model type.
// PreviousResourceState is populated for UPDATE and DELETE only.
type Request struct {
	Action                Action          `json:"action"`
	DesiredResourceState  json.RawMessage `json:"desiredResourceState,omitempty"`
	PreviousResourceState json.RawMessage `json:"previousResourceState,omitempty"`
	CallbackContext       map[string]any  `json:"callbackContext,omitempty"`
}

// ProgressEvent is the outcome of one handler invocation. ErrorCode and
// Message are populated if and only if the status is FAILED; ResourceModels
// is populated only by LIST; CallbackContext only accompanies IN_PROGRESS.
type ProgressEvent struct {
	OperationStatus OperationStatus `json:"status"`
	ResourceModel   any             `json:"resourceModel,omitempty"`
	ResourceModels  []any           `json:"resourceModels,omitempty"`
	ErrorCode       ErrorCode       `json:"errorCode,omitempty"`
	Message         string          `json:"message,omitempty"`
	CallbackContext map[string]any  `json:"callbackContext,omitempty"`
}

// NewSuccessEvent returns a terminal SUCCESS event carrying the resource
// model as known after the operation. A nil model is allowed (e.g. DELETE,
// where identifiers must no longer be reported).
func NewSuccessEvent(model any) ProgressEvent {
	return ProgressEvent{
		OperationStatus: StatusSuccess,
		ResourceModel:   model,
	}
}

// NewListEvent returns a terminal SUCCESS event carrying an ordered sequence
// of resource models.
func NewListEvent(models []any) ProgressEvent {
	if models == nil {
		models = []any{}
	}
	return ProgressEvent{
		OperationStatus: StatusSuccess,
		ResourceModels:  models,
	}
}

// NewFailedEvent returns a terminal FAILED event with the given
// classification and the underlying error's message.
func NewFailedEvent(code ErrorCode, err error) ProgressEvent {
	return ProgressEvent{
		OperationStatus: StatusFailed,
		ErrorCode:       code,
		Message:         err.Error(),
	}
}

// NewInProgressEvent returns a continuation event. The orchestrator is
// expected to re-invoke the handler with the callback context.
func NewInProgressEvent(model any, callbackContext map[string]any) ProgressEvent {
	return ProgressEvent{
		OperationStatus: StatusInProgress,
		ResourceModel:   model,
		CallbackContext: callbackContext,
	}
}

// Failed reports whether the event is a terminal failure.
func (e ProgressEvent) Failed() bool {
	return e.OperationStatus == StatusFailed
}

// Handler is a resource provider for a single resource type. Each method is
// a one-shot unit of work: failures are reported as FAILED events, never as
// panics or partial progress, and no retry happens inside the handler.
type Handler interface {
	Create(ctx context.Context, req Request) ProgressEvent
	Read(ctx context.Context, req Request) ProgressEvent
	Update(ctx context.Context, req Request) ProgressEvent
	Delete(ctx context.Context, req Request) ProgressEvent
	List(ctx context.Context, req Request) ProgressEvent
}

// Dispatch routes a request to the handler operation matching its action.
// The switch is exhaustive over the Action enum; anything else is rejected
// as an invalid request. Each dispatch is stamped with a request id for log
// correlation.
func Dispatch(ctx context.Context, h Handler, req Request, logger *slog.Logger) ProgressEvent {
	if logger == nil {
		logger = slog.Default()
	}
	requestID := uuid.NewString()
	logger = logger.With("request_id", requestID, "action", string(req.Action))
	logger.Debug("dispatching request")

	var event ProgressEvent
	switch req.Action {
	case ActionCreate:
		event = h.Create(ctx, req)
	case ActionRead:
		event = h.Read(ctx, req)
	case ActionUpdate:
		event = h.Update(ctx, req)
	case ActionDelete:
		event = h.Delete(ctx, req)
	case ActionList:
		event = h.List(ctx, req)
	default:
		event = NewFailedEvent(ErrorCodeInvalidRequest,
			fmt.Errorf("invalid action %q, must be one of %v", req.Action, Actions()))
	}

	if event.Failed() {
		logger.Error("request failed", "error_code", string(event.ErrorCode), "message", event.Message)
	} else {
		logger.Debug("request completed", "status", string(event.OperationStatus))
	}
	return event
}
