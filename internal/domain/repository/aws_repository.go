package repository

import (
	"context"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

// AWSRepository defines the interface for read-only AWS API interactions.
// Every call scopes itself to the profile the adapter was built with.
type AWSRepository interface {
	// Identity & Regions
	GetAccountIdentity(ctx context.Context) (accountID, alias string, err error)
	GetAccessibleRegions(ctx context.Context) ([]string, error)

	// Per-region resource listings
	ListEC2Instances(ctx context.Context, region string) ([]entity.ResourceRecord, error)
	ListVolumes(ctx context.Context, region string) ([]entity.ResourceRecord, error)
	ListAddresses(ctx context.Context, region string) ([]entity.ResourceRecord, error)
	ListRDSInstances(ctx context.Context, region string) ([]entity.ResourceRecord, error)
	ListLambdaFunctions(ctx context.Context, region string) ([]entity.ResourceRecord, error)
	ListLogGroups(ctx context.Context, region string) ([]entity.ResourceRecord, error)
	ListAlarms(ctx context.Context, region string) ([]entity.ResourceRecord, error)

	// Global listings
	ListS3Buckets(ctx context.Context) ([]entity.ResourceRecord, error)

	// Billing
	GetCostSummary(ctx context.Context) (entity.CostData, error)
	GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error)

	// Metrics
	FindIdleInstances(ctx context.Context, records []entity.ResourceRecord) ([]entity.IdleResource, error)
}
