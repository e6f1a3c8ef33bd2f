package organizationalunit

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/google/go-cmp/cmp"
	"github.com/rob3c/aws-resource-providers/internal/organizations/state"
	"github.com/rob3c/aws-resource-providers/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrganizationsAPI implements helpers.OrganizationsAPI for testing
type mockOrganizationsAPI struct {
	listRootsFunc func(context.Context, *organizations.ListRootsInput) (*organizations.ListRootsOutput, error)
	createOUFunc  func(context.Context, *organizations.CreateOrganizationalUnitInput) (*organizations.CreateOrganizationalUnitOutput, error)
	deleteOUFunc  func(context.Context, *organizations.DeleteOrganizationalUnitInput) (*organizations.DeleteOrganizationalUnitOutput, error)

	listRootsCalls int
	createOUCalls  int
	deleteOUCalls  int
}

func (m *mockOrganizationsAPI) ListRoots(
	ctx context.Context,
	params *organizations.ListRootsInput,
	_ ...func(*organizations.Options),
) (*organizations.ListRootsOutput, error) {
	m.listRootsCalls++
	if m.listRootsFunc != nil {
		return m.listRootsFunc(ctx, params)
	}
	return nil, fmt.Errorf("ListRoots not implemented")
}

func (m *mockOrganizationsAPI) CreateOrganizationalUnit(
	ctx context.Context,
	params *organizations.CreateOrganizationalUnitInput,
	_ ...func(*organizations.Options),
) (*organizations.CreateOrganizationalUnitOutput, error) {
	m.createOUCalls++
	if m.createOUFunc != nil {
		return m.createOUFunc(ctx, params)
	}
	return nil, fmt.Errorf("CreateOrganizationalUnit not implemented")
}

func (m *mockOrganizationsAPI) DeleteOrganizationalUnit(
	ctx context.Context,
	params *organizations.DeleteOrganizationalUnitInput,
	_ ...func(*organizations.Options),
) (*organizations.DeleteOrganizationalUnitOutput, error) {
	m.deleteOUCalls++
	if m.deleteOUFunc != nil {
		return m.deleteOUFunc(ctx, params)
	}
	return nil, fmt.Errorf("DeleteOrganizationalUnit not implemented")
}

func newTestHandler(t *testing.T, api *mockOrganizationsAPI) *Handler {
	t.Helper()
	h, err := NewHandler(state.NewClient(api), nil)
	require.NoError(t, err)
	return h
}

func mustRaw(t *testing.T, model ResourceModel) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(model)
	require.NoError(t, err)
	return b
}

func singleRootAPI(id string) *mockOrganizationsAPI {
	return &mockOrganizationsAPI{
		listRootsFunc: func(_ context.Context, _ *organizations.ListRootsInput) (*organizations.ListRootsOutput, error) {
			return &organizations.ListRootsOutput{
				Roots: []types.Root{{Id: aws.String(id)}},
			}, nil
		},
	}
}

func TestNewHandlerRequiresClient(t *testing.T) {
	_, err := NewHandler(nil, nil)
	assert.Error(t, err)
}

func TestParentIDOrRootID(t *testing.T) {
	t.Run("explicit parent is returned verbatim without listing roots", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		got, err := h.parentIDOrRootID(context.Background(), "ou-123")
		require.NoError(t, err)
		assert.Equal(t, "ou-123", got)
		assert.Equal(t, 0, api.listRootsCalls)
	})

	t.Run("implicit parent resolves to first root", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			listRootsFunc: func(_ context.Context, _ *organizations.ListRootsInput) (*organizations.ListRootsOutput, error) {
				return &organizations.ListRootsOutput{
					Roots: []types.Root{
						{Id: aws.String("r-1")},
						{Id: aws.String("r-2")},
					},
				}, nil
			},
		}
		h := newTestHandler(t, api)

		got, err := h.parentIDOrRootID(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "r-1", got)
		assert.Equal(t, 1, api.listRootsCalls)
	})

	t.Run("zero roots is an explicit error", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			listRootsFunc: func(_ context.Context, _ *organizations.ListRootsInput) (*organizations.ListRootsOutput, error) {
				return &organizations.ListRootsOutput{}, nil
			},
		}
		h := newTestHandler(t, api)

		_, err := h.parentIDOrRootID(context.Background(), "")
		assert.ErrorIs(t, err, state.ErrNoRoots)
	})
}

func TestCreate(t *testing.T) {
	t.Run("success with explicit parent", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			createOUFunc: func(_ context.Context,
				params *organizations.CreateOrganizationalUnitInput,
			) (*organizations.CreateOrganizationalUnitOutput, error) {
				assert.Equal(t, "Team A", aws.ToString(params.Name))
				assert.Equal(t, "ou-1", aws.ToString(params.ParentId))
				return &organizations.CreateOrganizationalUnitOutput{
					OrganizationalUnit: &types.OrganizationalUnit{
						Id:  aws.String("ou-new"),
						Arn: aws.String("arn:aws:organizations:::ou/o-1/ou-new"),
					},
				}, nil
			},
		}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action: provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{
				OrganizationalUnitName: "Team A",
				ParentOU:               "ou-1",
			}),
		})

		require.Equal(t, provider.StatusSuccess, event.OperationStatus)
		model, ok := event.ResourceModel.(ResourceModel)
		require.True(t, ok)
		assert.Equal(t, "ou-new", model.ResourceID)
		assert.Equal(t, "arn:aws:organizations:::ou/o-1/ou-new", model.ARN)
		assert.Equal(t, 0, api.listRootsCalls)
		assert.Equal(t, 1, api.createOUCalls)
		assert.Empty(t, event.ErrorCode)
		assert.Empty(t, event.Message)
	})

	t.Run("missing parent attaches to the first root", func(t *testing.T) {
		api := singleRootAPI("r-base")
		api.createOUFunc = func(_ context.Context,
			params *organizations.CreateOrganizationalUnitInput,
		) (*organizations.CreateOrganizationalUnitOutput, error) {
			assert.Equal(t, "r-base", aws.ToString(params.ParentId))
			return &organizations.CreateOrganizationalUnitOutput{
				OrganizationalUnit: &types.OrganizationalUnit{
					Id:  aws.String("ou-new"),
					Arn: aws.String("arn:aws:organizations:::ou/o-1/ou-new"),
				},
			}, nil
		}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action:               provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{OrganizationalUnitName: "Team A"}),
		})

		require.Equal(t, provider.StatusSuccess, event.OperationStatus)
		assert.Equal(t, 1, api.listRootsCalls)
	})

	t.Run("throttled create surfaces the underlying message", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			createOUFunc: func(_ context.Context,
				_ *organizations.CreateOrganizationalUnitInput,
			) (*organizations.CreateOrganizationalUnitOutput, error) {
				return nil, &types.TooManyRequestsException{Message: aws.String("throttled")}
			},
		}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action: provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{
				OrganizationalUnitName: "Team A",
				ParentOU:               "ou-1",
			}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeThrottling, event.ErrorCode)
		assert.Contains(t, event.Message, "throttled")
	})

	t.Run("duplicate unit classifies as already exists", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			createOUFunc: func(_ context.Context,
				_ *organizations.CreateOrganizationalUnitInput,
			) (*organizations.CreateOrganizationalUnitOutput, error) {
				return nil, &types.DuplicateOrganizationalUnitException{}
			},
		}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action: provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{
				OrganizationalUnitName: "Team A",
				ParentOU:               "ou-1",
			}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeAlreadyExists, event.ErrorCode)
	})

	t.Run("unclassified failure reports internal failure", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			createOUFunc: func(_ context.Context,
				_ *organizations.CreateOrganizationalUnitInput,
			) (*organizations.CreateOrganizationalUnitOutput, error) {
				return nil, fmt.Errorf("wire snapped")
			},
		}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action: provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{
				OrganizationalUnitName: "Team A",
				ParentOU:               "ou-1",
			}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeInternalFailure, event.ErrorCode)
		assert.Contains(t, event.Message, "wire snapped")
	})

	t.Run("empty root list fails without creating", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			listRootsFunc: func(_ context.Context, _ *organizations.ListRootsInput) (*organizations.ListRootsOutput, error) {
				return &organizations.ListRootsOutput{}, nil
			},
		}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action:               provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{OrganizationalUnitName: "Team A"}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeNotFound, event.ErrorCode)
		assert.Equal(t, 0, api.createOUCalls)
	})

	t.Run("missing name is an invalid request", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action:               provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{ParentOU: "ou-1"}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeInvalidRequest, event.ErrorCode)
		assert.Equal(t, 0, api.createOUCalls)
	})

	t.Run("caller supplied resourceId is an invalid request", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		event := h.Create(context.Background(), provider.Request{
			Action: provider.ActionCreate,
			DesiredResourceState: mustRaw(t, ResourceModel{
				OrganizationalUnitName: "Team A",
				ResourceID:             "ou-preassigned",
			}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeInvalidRequest, event.ErrorCode)
		assert.Equal(t, 0, api.createOUCalls)
	})
}

func TestUpdate(t *testing.T) {
	desired := ResourceModel{
		OrganizationalUnitName: "Team A",
		ParentOU:               "ou-1",
		ResourceID:             "ou-7",
	}

	t.Run("unchanged parent succeeds", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		event := h.Update(context.Background(), provider.Request{
			Action:                provider.ActionUpdate,
			DesiredResourceState:  mustRaw(t, desired),
			PreviousResourceState: mustRaw(t, desired),
		})

		require.Equal(t, provider.StatusSuccess, event.OperationStatus)
		assert.Equal(t, desired, event.ResourceModel)
	})

	t.Run("changed parent fails with the immutability violation", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		previous := desired
		previous.ParentOU = "ou-2"

		event := h.Update(context.Background(), provider.Request{
			Action:                provider.ActionUpdate,
			DesiredResourceState:  mustRaw(t, desired),
			PreviousResourceState: mustRaw(t, previous),
		})

		// Regression guard: the failure must not be overwritten by a
		// later success, so the returned status is terminal FAILED.
		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeNotUpdatable, event.ErrorCode)
		assert.Contains(t, event.Message, TypeName)
		assert.Contains(t, event.Message, "parentOU")
	})

	t.Run("makes no external calls", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		h.Update(context.Background(), provider.Request{
			Action:                provider.ActionUpdate,
			DesiredResourceState:  mustRaw(t, desired),
			PreviousResourceState: mustRaw(t, desired),
		})

		assert.Equal(t, 0, api.listRootsCalls)
		assert.Equal(t, 0, api.createOUCalls)
		assert.Equal(t, 0, api.deleteOUCalls)
	})
}

func TestDelete(t *testing.T) {
	t.Run("success issues exactly one delete with the identifier", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			deleteOUFunc: func(_ context.Context,
				params *organizations.DeleteOrganizationalUnitInput,
			) (*organizations.DeleteOrganizationalUnitOutput, error) {
				assert.Equal(t, "ou-7", aws.ToString(params.OrganizationalUnitId))
				return &organizations.DeleteOrganizationalUnitOutput{}, nil
			},
		}
		h := newTestHandler(t, api)

		event := h.Delete(context.Background(), provider.Request{
			Action:                provider.ActionDelete,
			PreviousResourceState: mustRaw(t, ResourceModel{ResourceID: "ou-7"}),
		})

		require.Equal(t, provider.StatusSuccess, event.OperationStatus)
		assert.Nil(t, event.ResourceModel)
		assert.Equal(t, 1, api.deleteOUCalls)
	})

	t.Run("missing identifier is an explicit precondition failure", func(t *testing.T) {
		api := &mockOrganizationsAPI{}
		h := newTestHandler(t, api)

		event := h.Delete(context.Background(), provider.Request{
			Action:                provider.ActionDelete,
			PreviousResourceState: mustRaw(t, ResourceModel{OrganizationalUnitName: "Team A"}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeInvalidRequest, event.ErrorCode)
		assert.Equal(t, 0, api.deleteOUCalls)
	})

	t.Run("already deleted unit propagates not found", func(t *testing.T) {
		api := &mockOrganizationsAPI{
			deleteOUFunc: func(_ context.Context,
				_ *organizations.DeleteOrganizationalUnitInput,
			) (*organizations.DeleteOrganizationalUnitOutput, error) {
				return nil, &types.OrganizationalUnitNotFoundException{}
			},
		}
		h := newTestHandler(t, api)

		event := h.Delete(context.Background(), provider.Request{
			Action:                provider.ActionDelete,
			PreviousResourceState: mustRaw(t, ResourceModel{ResourceID: "ou-7"}),
		})

		require.Equal(t, provider.StatusFailed, event.OperationStatus)
		assert.Equal(t, provider.ErrorCodeNotFound, event.ErrorCode)
	})
}

func TestRead(t *testing.T) {
	model := ResourceModel{
		OrganizationalUnitName: "Team A",
		ParentOU:               "ou-1",
		ResourceID:             "ou-7",
		ARN:                    "arn:aws:organizations:::ou/o-1/ou-7",
	}
	api := &mockOrganizationsAPI{}
	h := newTestHandler(t, api)

	req := provider.Request{
		Action:               provider.ActionRead,
		DesiredResourceState: mustRaw(t, model),
	}

	first := h.Read(context.Background(), req)
	second := h.Read(context.Background(), req)

	require.Equal(t, provider.StatusSuccess, first.OperationStatus)
	assert.Equal(t, model, first.ResourceModel)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Read is not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, 0, api.listRootsCalls)
}

func TestList(t *testing.T) {
	model := ResourceModel{
		OrganizationalUnitName: "Team A",
		ParentOU:               "ou-1",
	}
	h := newTestHandler(t, &mockOrganizationsAPI{})

	event := h.List(context.Background(), provider.Request{
		Action:               provider.ActionList,
		DesiredResourceState: mustRaw(t, model),
	})

	require.Equal(t, provider.StatusSuccess, event.OperationStatus)
	assert.Equal(t, []any{model}, event.ResourceModels)
	assert.Nil(t, event.ResourceModel)
}
