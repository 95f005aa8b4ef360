package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/aggregate"
	"github.com/diillson/aws-costwatch-go/internal/domain/alerting"
	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/estimator"
	"github.com/diillson/aws-costwatch-go/internal/domain/freetier"
	"github.com/diillson/aws-costwatch-go/internal/domain/pricing"
	"github.com/diillson/aws-costwatch-go/internal/domain/repository"
	"github.com/diillson/aws-costwatch-go/internal/shared/types"
	"github.com/diillson/aws-costwatch-go/internal/shared/worker"
)

// fallbackRegions é usada quando DescribeRegions falha; o ciclo segue
// degradado em vez de abortar.
var fallbackRegions = []string{"us-east-1", "us-east-2", "us-west-1", "us-west-2", "eu-west-1", "eu-central-1"}

// Renderer é a superfície de desenho consumida pelo loop. Implementada
// pelo adapter de dashboard.
type Renderer interface {
	Start() error
	Render(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, nextScan time.Time)
	Stop()
}

// StoreOpener abre o armazenamento de histórico; injetada para o loop não
// depender do driver sqlite diretamente.
type StoreOpener func(path string) (repository.StoreRepository, error)

// ScanUseCase orquestra o ciclo contínuo: descobrir regiões, listar
// recursos em paralelo, estimar, acumular free tier, agregar, avaliar
// alertas, persistir e renderizar.
type ScanUseCase struct {
	awsRepo    repository.AWSRepository
	configRepo repository.ConfigRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
	renderer   Renderer
	openStore  StoreOpener
	logger     *slog.Logger

	estimator *estimator.Estimator
	tracker   *freetier.Tracker

	now func() time.Time
}

// NewScanUseCase creates the scan loop use case.
func NewScanUseCase(
	awsRepo repository.AWSRepository,
	configRepo repository.ConfigRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
	renderer Renderer,
	openStore StoreOpener,
	logger *slog.Logger,
) *ScanUseCase {
	return &ScanUseCase{
		awsRepo:    awsRepo,
		configRepo: configRepo,
		exportRepo: exportRepo,
		console:    console,
		renderer:   renderer,
		openStore:  openStore,
		logger:     logger,
		estimator:  estimator.New(pricing.DefaultTable()),
		now:        time.Now,
	}
}

// ResolveConfig carrega o arquivo de configuração (quando informado) e
// aplica os overrides de linha de comando. É resolvida antes de montar o
// caso de uso porque o profile e o log file saem daqui.
func ResolveConfig(configRepo repository.ConfigRepository, args types.CLIArgs) (types.Config, error) {
	cfg := types.DefaultConfig()
	if args.ConfigFile != "" {
		loaded, err := configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return types.Config{}, err
		}
		cfg = *loaded
	}
	return args.MergedConfig(cfg), nil
}

// Run executa o loop até o contexto ser cancelado. Interrupção limpa
// retorna nil; o processo encerra com código 0.
func (uc *ScanUseCase) Run(ctx context.Context, cfg types.Config) error {
	accountID, alias, err := uc.awsRepo.GetAccountIdentity(ctx)
	if err != nil {
		uc.logger.Error("credential check failed", "error", err)
		return fmt.Errorf("%w: %v", types.ErrNoCredentials, err)
	}
	uc.console.LogSuccess("Authenticated as %s", alias)
	uc.logger.Info("authenticated", "account", accountID)

	uc.tracker = freetier.NewTracker(cfg.FreeTierCapHours)

	var store repository.StoreRepository
	if !cfg.NoHistory {
		store, err = uc.openStore(cfg.DBPath)
		if err != nil {
			// histórico é best-effort: o dashboard funciona sem ele
			uc.console.LogWarning("scan history disabled: %v", err)
			uc.logger.Warn("open store failed", "path", cfg.DBPath, "error", err)
			store = nil
		}
	}
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()
	if store != nil {
		uc.seedFreeTier(ctx, store)
	}

	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 600 * time.Second
	}

	status := uc.console.Status("Running first scan...")
	if err := uc.renderer.Start(); err != nil {
		status.Stop()
		return err
	}
	defer uc.renderer.Stop()
	status.Stop()

	var (
		lastSnap    entity.AggregateSnapshot
		lastHistory []entity.ScanHistoryRow
		lastScanAt  time.Time
		scanNumber  int
	)

	runCycle := func() {
		scanNumber++
		started := uc.now()
		elapsedSinceLast := time.Duration(0)
		if !lastScanAt.IsZero() {
			elapsedSinceLast = started.Sub(lastScanAt)
		}
		lastScanAt = started

		snap := uc.scanOnce(ctx, cfg, scanNumber, accountID, alias, elapsedSinceLast)

		if store != nil {
			if err := store.AppendScan(ctx, snap); err != nil {
				uc.logger.Warn("append scan failed", "error", err)
			}
			history, err := store.RecentScans(ctx, cfg.TrendWindow)
			if err != nil {
				uc.logger.Warn("load history failed", "error", err)
			} else {
				lastHistory = history
			}
		}

		lastSnap = snap
		uc.renderer.Render(snap, lastHistory, started.Add(interval))
		uc.logger.Info("cycle rendered",
			"scan", scanNumber,
			"resources", snap.TotalResources(),
			"monthly", snap.TotalMonthly,
			"unknown_cells", len(snap.Unknown),
			"alerts", len(snap.Alerts),
			"elapsed", snap.Elapsed,
		)
	}

	// primeiro scan imediato, depois o ticker
	runCycle()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("shutdown requested")
			uc.exportReports(lastSnap, lastHistory, cfg)
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			runCycle()
		}
	}
}

// seedFreeTier retoma a contagem de free tier a partir da última linha
// persistida, quando o processo reinicia dentro do mesmo mês UTC. Um banco
// vazio ou de um mês anterior deixa o tracker zerado.
func (uc *ScanUseCase) seedFreeTier(ctx context.Context, store repository.StoreRepository) {
	rows, err := store.RecentScans(ctx, 1)
	if err != nil || len(rows) == 0 {
		return
	}
	last := rows[len(rows)-1].Timestamp.UTC()
	now := uc.now().UTC()
	if last.Year() != now.Year() || last.Month() != now.Month() {
		return
	}
	row := rows[len(rows)-1]
	uc.tracker.Seed(entity.FreeTierEC2, row.FreeTierEC2Hours, now)
	uc.tracker.Seed(entity.FreeTierRDS, row.FreeTierRDSHours, now)
	uc.logger.Info("free tier accrual resumed",
		"ec2_hours", row.FreeTierEC2Hours, "rds_hours", row.FreeTierRDSHours)
}

// scanCell identifica um alvo de listagem dentro do fan-out.
type scanCell struct {
	service entity.ServiceKind
	region  string
}

// scanOnce executa as fases de um ciclo: Scanning (fan-out das listagens),
// Aggregating (redução + alertas) e devolve o snapshot pronto para render.
// Falhas parciais viram células unknown; só o cancelamento interrompe.
func (uc *ScanUseCase) scanOnce(
	ctx context.Context,
	cfg types.Config,
	scanNumber int,
	accountID, alias string,
	elapsedSinceLast time.Duration,
) entity.AggregateSnapshot {
	started := uc.now()
	uc.logger.Info("scan started", "scan", scanNumber, "phase", "scanning")

	regions := cfg.Regions
	degraded := false
	if len(regions) == 0 {
		discovered, err := uc.awsRepo.GetAccessibleRegions(ctx)
		if err != nil {
			uc.logger.Warn("region discovery failed, using fallback list", "error", err)
			regions = fallbackRegions
			degraded = true
		} else {
			regions = discovered
		}
	}

	cells := make([]scanCell, 0, len(regions)*len(entity.ScanServices)+1)
	for _, region := range regions {
		for _, svc := range entity.ScanServices {
			cells = append(cells, scanCell{service: svc, region: region})
		}
	}
	cells = append(cells, scanCell{service: entity.ServiceS3})

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if len(cells) < maxWorkers {
		maxWorkers = len(cells)
	}
	pool := worker.NewPool(maxWorkers)

	callTimeout := time.Duration(cfg.CallTimeoutSecs) * time.Second
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}

	results := worker.RunFunc(ctx, pool, cells, func(ctx context.Context, cell scanCell) ([]entity.ResourceRecord, error) {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		return uc.listCell(callCtx, cell)
	})

	fetches := make([]aggregate.FetchResult, len(results))
	for i, res := range results {
		cell := cells[i]
		fetches[i] = aggregate.FetchResult{
			Service: cell.service,
			Region:  cell.region,
			Records: res.Value,
			Err:     res.Err,
		}
		if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
			uc.logger.Warn("cell failed",
				"service", cell.service, "region", cell.region, "error", res.Err)
		}
	}

	// acumula free tier só com as células que responderam
	var okRecords []entity.ResourceRecord
	for _, f := range fetches {
		if f.Err == nil {
			okRecords = append(okRecords, f.Records...)
		}
	}
	uc.tracker.Accrue(okRecords, elapsedSinceLast, started)

	uc.logger.Info("scan listing done", "scan", scanNumber, "phase", "aggregating")

	var costPtr *entity.CostData
	cost, err := uc.awsRepo.GetCostSummary(ctx)
	if err != nil {
		uc.logger.Warn("cost explorer unavailable", "error", err)
	} else {
		costPtr = &cost
	}

	budgets, budgetsErr := uc.awsRepo.GetBudgets(ctx)
	if budgetsErr != nil {
		uc.logger.Warn("budgets unavailable", "error", budgetsErr)
	}

	idle, err := uc.awsRepo.FindIdleInstances(ctx, okRecords)
	if err != nil {
		uc.logger.Warn("idle detection unavailable", "error", err)
	}

	snap := aggregate.Build(aggregate.Input{
		Timestamp:         started,
		ScanNumber:        scanNumber,
		AccountID:         accountID,
		AccountAlias:      alias,
		Regions:           regions,
		Results:           fetches,
		FreeTier:          uc.tracker.Usage(),
		Cost:              costPtr,
		Budgets:           budgets,
		BudgetsFailed:     budgetsErr != nil,
		DiscoveryDegraded: degraded,
		Idle:              idle,
		Elapsed:           uc.now().Sub(started),
	}, uc.estimator)

	snap.Alerts = alerting.Evaluate(snap, alerting.Thresholds{
		MonthlyCritical:     cfg.MonthlyCritical,
		MonthlyWarning:      cfg.MonthlyWarning,
		FreeTierCriticalPct: cfg.FreeTierCriticalPct,
		FreeTierWarningPct:  cfg.FreeTierWarningPct,
	})
	return snap
}

func (uc *ScanUseCase) listCell(ctx context.Context, cell scanCell) ([]entity.ResourceRecord, error) {
	switch cell.service {
	case entity.ServiceEC2:
		return uc.awsRepo.ListEC2Instances(ctx, cell.region)
	case entity.ServiceEBS:
		return uc.awsRepo.ListVolumes(ctx, cell.region)
	case entity.ServiceEIP:
		return uc.awsRepo.ListAddresses(ctx, cell.region)
	case entity.ServiceRDS:
		return uc.awsRepo.ListRDSInstances(ctx, cell.region)
	case entity.ServiceLambda:
		return uc.awsRepo.ListLambdaFunctions(ctx, cell.region)
	case entity.ServiceLogGroup:
		return uc.awsRepo.ListLogGroups(ctx, cell.region)
	case entity.ServiceAlarm:
		return uc.awsRepo.ListAlarms(ctx, cell.region)
	case entity.ServiceS3:
		return uc.awsRepo.ListS3Buckets(ctx)
	default:
		return nil, fmt.Errorf("unsupported scan service: %s", cell.service)
	}
}

// exportReports grava os relatórios finais quando configurado. Roda no
// desligamento, com contexto próprio já que o principal foi cancelado.
func (uc *ScanUseCase) exportReports(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, cfg types.Config) {
	if cfg.ReportName == "" || len(cfg.ReportType) == 0 {
		return
	}
	for _, reportType := range cfg.ReportType {
		var (
			path string
			err  error
		)
		switch reportType {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(snap, history, cfg.ReportName, cfg.Dir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(snap, history, cfg.ReportName, cfg.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(snap, history, cfg.ReportName, cfg.Dir)
		default:
			uc.console.LogWarning("Unknown report type: %s", reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export %s report: %v", reportType, err)
			continue
		}
		uc.console.LogSuccess("Report saved to %s", path)
	}
}
