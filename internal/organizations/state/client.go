// Package state provides a normalized client over the AWS Organizations API
// for resource provider handlers.
package state

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/rob3c/aws-resource-providers/internal/organizations/helpers"
)

// Client wraps the Organizations SDK for hierarchy state management.
type Client struct {
	orgAPI helpers.OrganizationsAPI
}

// NewClient creates a new state client.
func NewClient(orgAPI helpers.OrganizationsAPI) *Client {
	return &Client{
		orgAPI: orgAPI,
	}
}

// Root represents a normalized top-level hierarchy node for internal use.
type Root struct {
	ID   string
	Arn  string
	Name string
}

// OrganizationalUnit represents a normalized grouping unit for internal use.
type OrganizationalUnit struct {
	ID   string
	Arn  string
	Name string
}

// listRootsPageSize is the Organizations API maximum for ListRoots.
const listRootsPageSize int32 = 20

// ListRoots returns all top-level nodes of the account hierarchy in the
// order the API reports them.
func (c *Client) ListRoots(ctx context.Context) ([]Root, error) {
	if err := ValidateAPIClient(c.orgAPI, "Organizations"); err != nil {
		return nil, err
	}

	var allRoots []Root
	var nextToken *string

	for {
		req := &organizations.ListRootsInput{
			MaxResults: aws.Int32(listRootsPageSize),
			NextToken:  nextToken,
		}

		resp, err := c.orgAPI.ListRoots(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to list roots: %w", err)
		}
		if err := ValidateResponse(resp, "ListRoots"); err != nil {
			return nil, err
		}

		for _, root := range resp.Roots {
			allRoots = append(allRoots, Root{
				ID:   aws.ToString(root.Id),
				Arn:  aws.ToString(root.Arn),
				Name: aws.ToString(root.Name),
			})
		}

		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		nextToken = resp.NextToken
	}

	return allRoots, nil
}

// CreateOrganizationalUnit creates a grouping unit with the given display
// name under the given parent node.
func (c *Client) CreateOrganizationalUnit(ctx context.Context, name, parentID string) (*OrganizationalUnit, error) {
	if err := ValidateAPIClient(c.orgAPI, "Organizations"); err != nil {
		return nil, err
	}

	req := &organizations.CreateOrganizationalUnitInput{
		Name:     aws.String(name),
		ParentId: aws.String(parentID),
	}

	resp, err := c.orgAPI.CreateOrganizationalUnit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create organizational unit %q: %w", name, err)
	}
	if err := ValidateResponse(resp, "CreateOrganizationalUnit"); err != nil {
		return nil, err
	}
	if resp.OrganizationalUnit == nil || resp.OrganizationalUnit.Id == nil {
		return nil, &ResponseValidationError{
			Operation:    "CreateOrganizationalUnit",
			ExpectedType: "OrganizationalUnit",
		}
	}

	return &OrganizationalUnit{
		ID:   aws.ToString(resp.OrganizationalUnit.Id),
		Arn:  aws.ToString(resp.OrganizationalUnit.Arn),
		Name: aws.ToString(resp.OrganizationalUnit.Name),
	}, nil
}

// DeleteOrganizationalUnit removes the grouping unit with the given
// identifier. The unit must be empty; the API reports a failure otherwise,
// which is propagated unchanged.
func (c *Client) DeleteOrganizationalUnit(ctx context.Context, id string) error {
	if err := ValidateAPIClient(c.orgAPI, "Organizations"); err != nil {
		return err
	}

	req := &organizations.DeleteOrganizationalUnitInput{
		OrganizationalUnitId: aws.String(id),
	}

	if _, err := c.orgAPI.DeleteOrganizationalUnit(ctx, req); err != nil {
		return fmt.Errorf("failed to delete organizational unit %q: %w", id, err)
	}
	return nil
}
