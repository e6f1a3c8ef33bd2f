package helpers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/rob3c/aws-resource-providers/internal/config"
)

// Configuration paths (profile scoped) for AWS client construction.
const (
	RegionConfigPath      = "aws.region"
	ProfileConfigPath     = "aws.profile"
	MaxAttemptsConfigPath = "aws.retry-max-attempts"

	// DefaultMaxAttempts bounds SDK-level retries. Handlers never retry;
	// transient faults surfacing past the SDK are reported to the caller.
	DefaultMaxAttempts = 3
)

// OrganizationsAPI defines the interface for the hierarchy operations the
// providers depend on. The aws-sdk-go-v2 Organizations client satisfies it
// directly.
type OrganizationsAPI interface {
	ListRoots(ctx context.Context, params *organizations.ListRootsInput,
		optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	CreateOrganizationalUnit(ctx context.Context, params *organizations.CreateOrganizationalUnitInput,
		optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error)
	DeleteOrganizationalUnit(ctx context.Context, params *organizations.DeleteOrganizationalUnitInput,
		optFns ...func(*organizations.Options)) (*organizations.DeleteOrganizationalUnitOutput, error)
}

// NewAWSConfig resolves an AWS configuration using the standard credential
// chain, overridden by profile-scoped CLI configuration where present.
func NewAWSConfig(ctx context.Context, cfg config.Hook) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(cfg.GetIntOrElse(MaxAttemptsConfigPath, DefaultMaxAttempts)),
	}
	if region := cfg.GetString(RegionConfigPath); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile := cfg.GetString(ProfileConfigPath); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// NewOrganizationsAPI builds the concrete Organizations client from a
// resolved AWS configuration.
func NewOrganizationsAPI(awsCfg aws.Config) OrganizationsAPI {
	return organizations.NewFromConfig(awsCfg)
}
