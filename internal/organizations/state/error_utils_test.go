package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		alreadyExists bool
		notFound      bool
		throttling    bool
	}{
		{
			name:          "duplicate unit",
			err:           &types.DuplicateOrganizationalUnitException{},
			alreadyExists: true,
		},
		{
			name:     "unit not found",
			err:      &types.OrganizationalUnitNotFoundException{},
			notFound: true,
		},
		{
			name:     "parent not found",
			err:      &types.ParentNotFoundException{},
			notFound: true,
		},
		{
			name:     "root not found",
			err:      &types.RootNotFoundException{},
			notFound: true,
		},
		{
			name:       "too many requests",
			err:        &types.TooManyRequestsException{},
			throttling: true,
		},
		{
			name:       "generic throttling code",
			err:        &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"},
			throttling: true,
		},
		{
			name: "unclassified",
			err:  errors.New("wire snapped"),
		},
		{
			name:       "wrapped errors keep their classification",
			err:        fmt.Errorf("failed to create organizational unit: %w", &types.TooManyRequestsException{}),
			throttling: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAlreadyExists(tt.err); got != tt.alreadyExists {
				t.Errorf("IsAlreadyExists = %v, want %v", got, tt.alreadyExists)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tt.notFound)
			}
			if got := IsThrottling(tt.err); got != tt.throttling {
				t.Errorf("IsThrottling = %v, want %v", got, tt.throttling)
			}
		})
	}
}

func TestValidateAPIClient(t *testing.T) {
	if err := ValidateAPIClient(nil, "Organizations"); err == nil {
		t.Fatal("expected error for nil client")
	}
	var typedNil *mockOrganizationsAPI
	if err := ValidateAPIClient(typedNil, "Organizations"); err == nil {
		t.Fatal("expected error for typed nil client")
	}
	if err := ValidateAPIClient(&mockOrganizationsAPI{}, "Organizations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
