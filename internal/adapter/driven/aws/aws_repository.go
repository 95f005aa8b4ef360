package aws

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/repository"
	"github.com/diillson/aws-costwatch-go/internal/shared/retry"
)

// Limites de amostragem para a detecção de instâncias ociosas; mantêm o
// número de chamadas GetMetricStatistics previsível por ciclo.
const (
	idleCPUThreshold  = 5.0
	idleLookbackHours = 3
	idleSampleLimit   = 25
)

// AWSRepositoryImpl implementa o AWSRepository com cache de clientes por
// (região, serviço). Todas as operações são somente leitura.
type AWSRepositoryImpl struct {
	profile     string
	cfgCache    *aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
	throttle    retry.Config
}

// NewAWSRepository cria uma nova implementação do AWSRepository para o
// profile informado (vazio usa a cadeia de credenciais padrão).
func NewAWSRepository(profile string) repository.AWSRepository {
	return &AWSRepositoryImpl{
		profile:     profile,
		clientCache: make(map[string]interface{}),
		throttle:    retry.ThrottleConfig.WithShouldRetry(IsThrottlingError),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfgCache != nil {
		return *r.cfgCache, nil
	}

	var opts []func(*config.LoadOptions) error
	if r.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(r.profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	r.cfgCache = &cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s", region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "ec2":
		client = ec2.NewFromConfig(regionalCfg)
	case "rds":
		client = rds.NewFromConfig(regionalCfg)
	case "lambda":
		client = lambda.NewFromConfig(regionalCfg)
	case "s3":
		client = s3.NewFromConfig(regionalCfg)
	case "cloudwatch":
		client = cloudwatch.NewFromConfig(regionalCfg)
	case "logs":
		client = cloudwatchlogs.NewFromConfig(regionalCfg)
	case "costexplorer":
		regionalCfg.Region = "us-east-1"
		client = costexplorer.NewFromConfig(regionalCfg)
	case "budgets":
		regionalCfg.Region = "us-east-1"
		client = budgets.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetAccountIdentity resolve a conta via STS. Falha aqui significa
// credenciais inválidas; o chamador trata como erro fatal.
func (r *AWSRepositoryImpl) GetAccountIdentity(ctx context.Context) (string, string, error) {
	client, err := r.getServiceClient(ctx, "us-east-1", "sts")
	if err != nil {
		return "", "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", "", fmt.Errorf("error getting caller identity: %w", err)
	}

	accountID := aws.ToString(result.Account)
	alias := accountID
	if arn := aws.ToString(result.Arn); arn != "" {
		if parts := strings.Split(arn, "/"); len(parts) > 1 {
			alias = fmt.Sprintf("%s (%s)", accountID, parts[len(parts)-1])
		}
	}
	return accountID, alias, nil
}

func (r *AWSRepositoryImpl) GetAccessibleRegions(ctx context.Context) ([]string, error) {
	client, err := r.getServiceClient(ctx, "us-east-1", "ec2")
	if err != nil {
		return nil, fmt.Errorf("could not create EC2 client to list regions: %w", err)
	}
	ec2Client := client.(*ec2.Client)

	regionsOutput, err := ec2Client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err != nil {
		return nil, err
	}

	accessibleRegions := make([]string, 0, len(regionsOutput.Regions))
	for _, region := range regionsOutput.Regions {
		accessibleRegions = append(accessibleRegions, aws.ToString(region.RegionName))
	}
	sort.Strings(accessibleRegions)
	return accessibleRegions, nil
}

func (r *AWSRepositoryImpl) ListEC2Instances(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "ec2")
	if err != nil {
		return nil, err
	}
	ec2Client := client.(*ec2.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		var records []entity.ResourceRecord
		paginator := ec2.NewDescribeInstancesPaginator(ec2Client, &ec2.DescribeInstancesInput{})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("describe instances in %s: %w", region, err)
			}
			for _, reservation := range output.Reservations {
				for _, instance := range reservation.Instances {
					name := ""
					for _, tag := range instance.Tags {
						if aws.ToString(tag.Key) == "Name" {
							name = aws.ToString(tag.Value)
							break
						}
					}
					records = append(records, entity.EC2Record{
						ResourceMeta: entity.ResourceMeta{
							ID:      aws.ToString(instance.InstanceId),
							Service: entity.ServiceEC2,
							Region:  region,
							Class:   string(instance.InstanceType),
							Status:  normalizeState(string(instance.State.Name)),
							Created: aws.ToTime(instance.LaunchTime),
						},
						Name: name,
					})
				}
			}
		}
		return records, nil
	})
}

func (r *AWSRepositoryImpl) ListVolumes(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "ec2")
	if err != nil {
		return nil, err
	}
	ec2Client := client.(*ec2.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		var records []entity.ResourceRecord
		paginator := ec2.NewDescribeVolumesPaginator(ec2Client, &ec2.DescribeVolumesInput{})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("describe volumes in %s: %w", region, err)
			}
			for _, volume := range output.Volumes {
				records = append(records, entity.VolumeRecord{
					ResourceMeta: entity.ResourceMeta{
						ID:      aws.ToString(volume.VolumeId),
						Service: entity.ServiceEBS,
						Region:  region,
						Class:   string(volume.VolumeType),
						Status:  normalizeState(string(volume.State)),
						Created: aws.ToTime(volume.CreateTime),
					},
					SizeGiB:  aws.ToInt32(volume.Size),
					Attached: len(volume.Attachments) > 0,
				})
			}
		}
		return records, nil
	})
}

func (r *AWSRepositoryImpl) ListAddresses(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "ec2")
	if err != nil {
		return nil, err
	}
	ec2Client := client.(*ec2.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		output, err := ec2Client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
		if err != nil {
			return nil, fmt.Errorf("describe addresses in %s: %w", region, err)
		}
		var records []entity.ResourceRecord
		for _, addr := range output.Addresses {
			associated := addr.AssociationId != nil || addr.InstanceId != nil
			id := aws.ToString(addr.AllocationId)
			if id == "" {
				id = aws.ToString(addr.PublicIp)
			}
			records = append(records, entity.AddressRecord{
				ResourceMeta: entity.ResourceMeta{
					ID:      id,
					Service: entity.ServiceEIP,
					Region:  region,
					Status:  entity.StateAvailable,
				},
				PublicIP:   aws.ToString(addr.PublicIp),
				Associated: associated,
			})
		}
		return records, nil
	})
}

func (r *AWSRepositoryImpl) ListRDSInstances(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "rds")
	if err != nil {
		return nil, err
	}
	rdsClient := client.(*rds.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		var records []entity.ResourceRecord
		paginator := rds.NewDescribeDBInstancesPaginator(rdsClient, &rds.DescribeDBInstancesInput{})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("describe db instances in %s: %w", region, err)
			}
			for _, db := range output.DBInstances {
				records = append(records, entity.RDSRecord{
					ResourceMeta: entity.ResourceMeta{
						ID:      aws.ToString(db.DBInstanceIdentifier),
						Service: entity.ServiceRDS,
						Region:  region,
						Class:   aws.ToString(db.DBInstanceClass),
						Status:  normalizeState(aws.ToString(db.DBInstanceStatus)),
						Created: aws.ToTime(db.InstanceCreateTime),
					},
					Engine: aws.ToString(db.Engine),
				})
			}
		}
		return records, nil
	})
}

func (r *AWSRepositoryImpl) ListLambdaFunctions(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "lambda")
	if err != nil {
		return nil, err
	}
	lambdaClient := client.(*lambda.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		var records []entity.ResourceRecord
		paginator := lambda.NewListFunctionsPaginator(lambdaClient, &lambda.ListFunctionsInput{})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list functions in %s: %w", region, err)
			}
			for _, fn := range output.Functions {
				created, _ := time.Parse("2006-01-02T15:04:05.000-0700", aws.ToString(fn.LastModified))
				records = append(records, entity.LambdaRecord{
					ResourceMeta: entity.ResourceMeta{
						ID:      aws.ToString(fn.FunctionName),
						Service: entity.ServiceLambda,
						Region:  region,
						Class:   string(fn.Runtime),
						Status:  entity.StateAvailable,
						Created: created,
					},
					Runtime:  string(fn.Runtime),
					CodeSize: fn.CodeSize,
				})
			}
		}
		return records, nil
	})
}

func (r *AWSRepositoryImpl) ListLogGroups(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "logs")
	if err != nil {
		return nil, err
	}
	logsClient := client.(*cloudwatchlogs.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		var records []entity.ResourceRecord
		paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(logsClient, &cloudwatchlogs.DescribeLogGroupsInput{})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("describe log groups in %s: %w", region, err)
			}
			for _, lg := range output.LogGroups {
				records = append(records, entity.LogGroupRecord{
					ResourceMeta: entity.ResourceMeta{
						ID:      aws.ToString(lg.LogGroupName),
						Service: entity.ServiceLogGroup,
						Region:  region,
						Status:  entity.StateAvailable,
						Created: time.UnixMilli(aws.ToInt64(lg.CreationTime)),
					},
					StoredBytes:   aws.ToInt64(lg.StoredBytes),
					RetentionDays: aws.ToInt32(lg.RetentionInDays),
				})
			}
		}
		return records, nil
	})
}

func (r *AWSRepositoryImpl) ListAlarms(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, region, "cloudwatch")
	if err != nil {
		return nil, err
	}
	cwClient := client.(*cloudwatch.Client)

	return retry.Do(ctx, r.throttle, func(ctx context.Context) ([]entity.ResourceRecord, error) {
		var records []entity.ResourceRecord
		paginator := cloudwatch.NewDescribeAlarmsPaginator(cwClient, &cloudwatch.DescribeAlarmsInput{})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("describe alarms in %s: %w", region, err)
			}
			for _, alarm := range output.MetricAlarms {
				records = append(records, entity.AlarmRecord{
					ResourceMeta: entity.ResourceMeta{
						ID:      aws.ToString(alarm.AlarmName),
						Service: entity.ServiceAlarm,
						Region:  region,
						Status:  entity.StateAvailable,
						Created: aws.ToTime(alarm.AlarmConfigurationUpdatedTimestamp),
					},
					StateValue: string(alarm.StateValue),
				})
			}
		}
		return records, nil
	})
}

// ListS3Buckets lista os buckets da conta. A listagem é global; a região de
// cada bucket vem de GetBucketLocation, com falhas individuais toleradas.
func (r *AWSRepositoryImpl) ListS3Buckets(ctx context.Context) ([]entity.ResourceRecord, error) {
	client, err := r.getServiceClient(ctx, "us-east-1", "s3")
	if err != nil {
		return nil, err
	}
	s3Client := client.(*s3.Client)

	output, err := retry.Do(ctx, r.throttle, func(ctx context.Context) (*s3.ListBucketsOutput, error) {
		return s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	records := make([]entity.ResourceRecord, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)
		region := "us-east-1"
		loc, err := s3Client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: bucket.Name})
		if err == nil && loc.LocationConstraint != "" {
			region = string(loc.LocationConstraint)
		}
		records = append(records, entity.S3Record{
			ResourceMeta: entity.ResourceMeta{
				ID:      name,
				Service: entity.ServiceS3,
				Region:  region,
				Status:  entity.StateAvailable,
				Created: aws.ToTime(bucket.CreationDate),
			},
		})
	}
	return records, nil
}

// GetCostSummary busca os custos reais no Cost Explorer: mês corrente, mês
// anterior, custo por serviço e o tráfego dividido em norte-sul / leste-oeste.
func (r *AWSRepositoryImpl) GetCostSummary(ctx context.Context) (entity.CostData, error) {
	client, err := r.getServiceClient(ctx, "us-east-1", "costexplorer")
	if err != nil {
		return entity.CostData{}, err
	}
	ceClient := client.(*costexplorer.Client)

	today := time.Now().UTC()
	startDate := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	endDate := today
	if startDate.Equal(endDate.Truncate(24 * time.Hour)) {
		endDate = endDate.AddDate(0, 0, 1)
	}
	prevEndDate := startDate.AddDate(0, 0, -1)
	prevStartDate := time.Date(prevEndDate.Year(), prevEndDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	var costData entity.CostData
	var wg sync.WaitGroup
	errChan := make(chan error, 4)

	wg.Add(1)
	go func() {
		defer wg.Done()
		cost, err := r.getCostForPeriod(ctx, ceClient, startDate, endDate)
		if err != nil {
			errChan <- fmt.Errorf("failed to get current period cost: %w", err)
			return
		}
		costData.CurrentMonthCost = cost
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		cost, err := r.getCostForPeriod(ctx, ceClient, prevStartDate, prevEndDate)
		if err != nil {
			errChan <- fmt.Errorf("failed to get previous period cost: %w", err)
			return
		}
		costData.LastMonthCost = cost
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		services, err := r.getCostByService(ctx, ceClient, startDate, endDate)
		if err != nil {
			errChan <- fmt.Errorf("failed to get cost by service: %w", err)
			return
		}
		costData.CurrentMonthCostByService = services
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ns, ew, err := r.getTransferSplit(ctx, ceClient, startDate, endDate)
		if err != nil {
			errChan <- fmt.Errorf("failed to get transfer split: %w", err)
			return
		}
		costData.TransferNorthSouth, costData.TransferEastWest = ns, ew
	}()

	wg.Wait()
	close(errChan)

	if len(errChan) > 0 {
		return entity.CostData{}, <-errChan
	}
	return costData, nil
}

func (r *AWSRepositoryImpl) getCostForPeriod(ctx context.Context, client *costexplorer.Client, start, end time.Time) (float64, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
	}

	result, err := client.GetCostAndUsage(ctx, input)
	if err != nil {
		return 0, err
	}

	var totalCost float64
	if len(result.ResultsByTime) > 0 && result.ResultsByTime[0].Total != nil {
		if val, ok := result.ResultsByTime[0].Total["UnblendedCost"]; ok {
			totalCost, _ = strconv.ParseFloat(aws.ToString(val.Amount), 64)
		}
	}
	return totalCost, nil
}

func (r *AWSRepositoryImpl) getCostByService(ctx context.Context, client *costexplorer.Client, start, end time.Time) ([]entity.ServiceCost, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	result, err := client.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, err
	}

	var serviceCosts []entity.ServiceCost
	if len(result.ResultsByTime) > 0 {
		for _, group := range result.ResultsByTime[0].Groups {
			cost, _ := strconv.ParseFloat(aws.ToString(group.Metrics["UnblendedCost"].Amount), 64)
			if cost > 0.001 {
				serviceCosts = append(serviceCosts, entity.ServiceCost{
					ServiceName: group.Keys[0],
					Cost:        cost,
				})
			}
		}
	}

	sort.Slice(serviceCosts, func(i, j int) bool {
		return serviceCosts[i].Cost > serviceCosts[j].Cost
	})
	return serviceCosts, nil
}

func (r *AWSRepositoryImpl) getTransferSplit(ctx context.Context, client *costexplorer.Client, start, end time.Time) (northSouth, eastWest float64, err error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("USAGE_TYPE")},
		},
		Filter: &ceTypes.Expression{
			Dimensions: &ceTypes.DimensionValues{
				Key:    ceTypes.DimensionUsageTypeGroup,
				Values: []string{"EC2: Data Transfer - Internet (Out)", "EC2: Data Transfer - Inter AZ", "EC2: Data Transfer - Region to Region (Out)"},
			},
		},
	}

	result, err := client.GetCostAndUsage(ctx, input)
	if err != nil {
		return 0, 0, err
	}

	if len(result.ResultsByTime) > 0 {
		for _, group := range result.ResultsByTime[0].Groups {
			cost, _ := strconv.ParseFloat(aws.ToString(group.Metrics["UnblendedCost"].Amount), 64)
			if len(group.Keys) == 0 || cost <= 0 {
				continue
			}
			if isNorthSouthUsage(group.Keys[0]) {
				northSouth += cost
			} else {
				eastWest += cost
			}
		}
	}
	return northSouth, eastWest, nil
}

// isNorthSouthUsage separa tráfego para fora da AWS (norte-sul) do tráfego
// entre regiões e AZs (leste-oeste) pelo nome do usage type.
func isNorthSouthUsage(usageType string) bool {
	for _, marker := range []string{"Out-Bytes", "Internet", "DataTransfer-Out"} {
		if strings.Contains(usageType, marker) {
			return true
		}
	}
	return false
}

func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	accountID, _, err := r.GetAccountIdentity(ctx)
	if err != nil {
		return nil, err
	}

	client, err := r.getServiceClient(ctx, "us-east-1", "budgets")
	if err != nil {
		return nil, err
	}
	budgetsClient := client.(*budgets.Client)

	output, err := budgetsClient.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		return nil, fmt.Errorf("describe budgets: %w", err)
	}

	var infos []entity.BudgetInfo
	for _, b := range output.Budgets {
		info := entity.BudgetInfo{Name: aws.ToString(b.BudgetName)}
		if b.BudgetLimit != nil {
			info.Limit, _ = strconv.ParseFloat(aws.ToString(b.BudgetLimit.Amount), 64)
		}
		if b.CalculatedSpend != nil {
			if b.CalculatedSpend.ActualSpend != nil {
				info.Actual, _ = strconv.ParseFloat(aws.ToString(b.CalculatedSpend.ActualSpend.Amount), 64)
			}
			if b.CalculatedSpend.ForecastedSpend != nil {
				info.Forecast, _ = strconv.ParseFloat(aws.ToString(b.CalculatedSpend.ForecastedSpend.Amount), 64)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// FindIdleInstances amostra o CPUUtilization médio das instâncias EC2 em
// execução; média abaixo do limiar marca a instância como ociosa. A amostra
// é limitada para não estourar o orçamento de chamadas do ciclo.
func (r *AWSRepositoryImpl) FindIdleInstances(ctx context.Context, records []entity.ResourceRecord) ([]entity.IdleResource, error) {
	var idle []entity.IdleResource
	sampled := 0

	for _, rec := range records {
		meta := rec.Meta()
		if meta.Service != entity.ServiceEC2 || meta.Status != entity.StateRunning {
			continue
		}
		if sampled >= idleSampleLimit {
			break
		}
		sampled++

		client, err := r.getServiceClient(ctx, meta.Region, "cloudwatch")
		if err != nil {
			continue
		}
		cwClient := client.(*cloudwatch.Client)

		end := time.Now().UTC()
		start := end.Add(-idleLookbackHours * time.Hour)
		output, err := cwClient.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
			Namespace:  aws.String("AWS/EC2"),
			MetricName: aws.String("CPUUtilization"),
			Dimensions: []cwTypes.Dimension{
				{Name: aws.String("InstanceId"), Value: aws.String(meta.ID)},
			},
			StartTime:  aws.Time(start),
			EndTime:    aws.Time(end),
			Period:     aws.Int32(300),
			Statistics: []cwTypes.Statistic{cwTypes.StatisticAverage},
		})
		if err != nil || len(output.Datapoints) == 0 {
			continue
		}

		var sum float64
		for _, dp := range output.Datapoints {
			sum += aws.ToFloat64(dp.Average)
		}
		avg := sum / float64(len(output.Datapoints))
		if avg < idleCPUThreshold {
			idle = append(idle, entity.IdleResource{
				ID:     meta.ID,
				Class:  meta.Class,
				Region: meta.Region,
				AvgCPU: avg,
			})
		}
	}
	return idle, nil
}

// normalizeState reduz os estados específicos de cada serviço aos estados
// usados pelo estimador.
func normalizeState(state string) entity.ResourceState {
	switch strings.ToLower(state) {
	case "running", "in-use":
		return entity.StateRunning
	case "stopped", "stopping", "stopped-storage-full":
		return entity.StateStopped
	case "available", "creating", "backing-up", "modifying":
		return entity.StateAvailable
	default:
		return entity.StateOther
	}
}
