// Package organizationalunit implements the resource provider for AWS
// Organizations organizational units: the grouping nodes of an account
// hierarchy.
package organizationalunit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rob3c/aws-resource-providers/internal/organizations/helpers"
	"github.com/rob3c/aws-resource-providers/internal/organizations/state"
	"github.com/rob3c/aws-resource-providers/internal/provider"
)

// TypeName is the resource type this provider reconciles.
const TypeName = "AWS::Organizations::OrganizationalUnit"

func init() {
	provider.Register(TypeName, func(deps provider.Dependencies) (provider.Handler, error) {
		client := state.NewClient(helpers.NewOrganizationsAPI(deps.AWSConfig))
		return NewHandler(client, deps.Logger)
	})
}

// Handler reconciles organizational units. The state client is a required
// dependency: a handler cannot exist without the API capability, so "no
// client" is a construction error rather than a silently successful no-op.
type Handler struct {
	client *state.Client
	logger *slog.Logger
}

var _ provider.Handler = &Handler{}

// NewHandler creates the organizational unit handler.
func NewHandler(client *state.Client, logger *slog.Logger) (*Handler, error) {
	if client == nil {
		return nil, fmt.Errorf("organizationalunit: state client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: client,
		logger: logger,
	}, nil
}

// Create provisions the unit in the external hierarchy and returns the
// model enriched with the assigned identifier and ARN. At most two external
// calls are made: a conditional root lookup, then the create.
func (h *Handler) Create(ctx context.Context, req provider.Request) provider.ProgressEvent {
	model, err := unmarshalModel(req.DesiredResourceState)
	if err != nil {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest, err)
	}
	if model.OrganizationalUnitName == "" {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest,
			errors.New("organizationalUnitName is required"))
	}
	if model.ResourceID != "" {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest,
			errors.New("resourceId is read-only and must not be set for create"))
	}

	parentID, err := h.parentIDOrRootID(ctx, model.ParentOU)
	if err != nil {
		return failedFromAPIError(err)
	}

	h.logger.Debug("creating organizational unit",
		"name", model.OrganizationalUnitName, "parent_id", parentID)

	ou, err := h.client.CreateOrganizationalUnit(ctx, model.OrganizationalUnitName, parentID)
	if err != nil {
		return failedFromAPIError(err)
	}

	model.ResourceID = ou.ID
	model.ARN = ou.Arn

	h.logger.Debug("created organizational unit", "resource_id", model.ResourceID)

	return provider.NewSuccessEvent(model)
}

// Read echoes the desired model. Drift detection against the live hierarchy
// is not implemented; the operation is a pure function of its input.
func (h *Handler) Read(_ context.Context, req provider.Request) provider.ProgressEvent {
	model, err := unmarshalModel(req.DesiredResourceState)
	if err != nil {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest, err)
	}
	return provider.NewSuccessEvent(model)
}

// Update validates that the immutable parent has not changed. Mutable
// attributes are not synchronized with the external system, so a valid
// update makes no external calls.
func (h *Handler) Update(_ context.Context, req provider.Request) provider.ProgressEvent {
	desired, err := unmarshalModel(req.DesiredResourceState)
	if err != nil {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest, err)
	}
	previous, err := unmarshalModel(req.PreviousResourceState)
	if err != nil {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest, err)
	}

	if desired.ParentOU != previous.ParentOU {
		return provider.NewFailedEvent(provider.ErrorCodeNotUpdatable,
			fmt.Errorf("%s: parentOU is immutable (was %q, requested %q)",
				TypeName, previous.ParentOU, desired.ParentOU))
	}

	return provider.NewSuccessEvent(desired)
}

// Delete removes the unit identified by the previous state. The identifier
// is a hard precondition; deleting an already-deleted unit surfaces the
// API's not-found as a failure.
func (h *Handler) Delete(ctx context.Context, req provider.Request) provider.ProgressEvent {
	previous, err := unmarshalModel(req.PreviousResourceState)
	if err != nil {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest, err)
	}
	if previous.ResourceID == "" {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest,
			errors.New("resourceId is required for delete"))
	}

	h.logger.Debug("deleting organizational unit", "resource_id", previous.ResourceID)

	if err := h.client.DeleteOrganizationalUnit(ctx, previous.ResourceID); err != nil {
		return failedFromAPIError(err)
	}

	// Identifiers are only reported while the unit exists, so the success
	// event carries no model.
	return provider.NewSuccessEvent(nil)
}

// List returns the desired model as a single-element sequence. No external
// enumeration is performed.
func (h *Handler) List(_ context.Context, req provider.Request) provider.ProgressEvent {
	model, err := unmarshalModel(req.DesiredResourceState)
	if err != nil {
		return provider.NewFailedEvent(provider.ErrorCodeInvalidRequest, err)
	}
	return provider.NewListEvent([]any{model})
}

// parentIDOrRootID resolves the effective parent for a create. A non-empty
// parent is used verbatim, without validating that it refers to an existing
// node. Otherwise the hierarchy roots are listed and the first root wins;
// an organization without roots is an explicit error.
func (h *Handler) parentIDOrRootID(ctx context.Context, parentID string) (string, error) {
	if parentID != "" {
		return parentID, nil
	}

	roots, err := h.client.ListRoots(ctx)
	if err != nil {
		return "", err
	}
	if len(roots) == 0 {
		return "", state.ErrNoRoots
	}
	return roots[0].ID, nil
}

func unmarshalModel(raw json.RawMessage) (ResourceModel, error) {
	var model ResourceModel
	if len(raw) == 0 {
		return model, errors.New("resource state is required")
	}
	if err := json.Unmarshal(raw, &model); err != nil {
		return model, fmt.Errorf("failed to parse resource state: %w", err)
	}
	return model, nil
}

// failedFromAPIError translates an external API outcome into the
// orchestrator's result vocabulary. Anything unclassified is an internal
// failure carrying the underlying message.
func failedFromAPIError(err error) provider.ProgressEvent {
	switch {
	case errors.Is(err, state.ErrNoRoots):
		return provider.NewFailedEvent(provider.ErrorCodeNotFound, err)
	case state.IsAlreadyExists(err):
		return provider.NewFailedEvent(provider.ErrorCodeAlreadyExists, err)
	case state.IsNotFound(err):
		return provider.NewFailedEvent(provider.ErrorCodeNotFound, err)
	case state.IsThrottling(err):
		return provider.NewFailedEvent(provider.ErrorCodeThrottling, err)
	default:
		return provider.NewFailedEvent(provider.ErrorCodeInternalFailure, err)
	}
}
