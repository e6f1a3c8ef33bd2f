package state

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
)

// ErrNoRoots is reported when parent resolution requires a hierarchy root
// and the organization reports none.
var ErrNoRoots = errors.New("organization has no hierarchy roots")

// APIClientError represents an error when an API client is not configured
type APIClientError struct {
	ClientType string
}

func (e *APIClientError) Error() string {
	return fmt.Sprintf("%s client not configured", e.ClientType)
}

// ValidateAPIClient checks if an API client interface is configured (not nil)
func ValidateAPIClient(client any, clientType string) error {
	if client == nil || (reflect.ValueOf(client).Kind() == reflect.Ptr && reflect.ValueOf(client).IsNil()) {
		return &APIClientError{ClientType: clientType}
	}
	return nil
}

// ResponseValidationError represents an error when an API response is
// missing expected data
type ResponseValidationError struct {
	Operation    string
	ExpectedType string
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("%s response missing %s data", e.Operation, e.ExpectedType)
}

// ValidateResponse checks if a response pointer contains non-nil data
func ValidateResponse[T any](response *T, operation string) error {
	if response == nil {
		return &ResponseValidationError{
			Operation:    operation,
			ExpectedType: reflect.TypeOf((*T)(nil)).Elem().Name(),
		}
	}
	return nil
}

// IsAlreadyExists reports whether the error indicates the grouping unit
// already exists under its parent.
func IsAlreadyExists(err error) bool {
	var dup *types.DuplicateOrganizationalUnitException
	return errors.As(err, &dup)
}

// IsNotFound reports whether the error indicates a referenced hierarchy
// node does not exist.
func IsNotFound(err error) bool {
	var ouNotFound *types.OrganizationalUnitNotFoundException
	if errors.As(err, &ouNotFound) {
		return true
	}
	var parentNotFound *types.ParentNotFoundException
	if errors.As(err, &parentNotFound) {
		return true
	}
	var rootNotFound *types.RootNotFoundException
	return errors.As(err, &rootNotFound)
}

// IsThrottling reports whether the error indicates a transient rate limit
// fault. Handlers do not retry; the classification is surfaced so the
// caller can schedule a re-invocation.
func IsThrottling(err error) bool {
	var tooMany *types.TooManyRequestsException
	if errors.As(err, &tooMany) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ThrottlingException"
	}
	return false
}
