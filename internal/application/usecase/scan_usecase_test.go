package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/freetier"
	"github.com/diillson/aws-costwatch-go/internal/domain/repository"
	"github.com/diillson/aws-costwatch-go/internal/shared/types"
)

// fakeAWSRepository devolve respostas fixas por região e permite simular
// falhas por célula.
type fakeAWSRepository struct {
	regions   []string
	regionErr error
	instances map[string][]entity.ResourceRecord
	failEC2   map[string]error
	costErr   error
}

func (f *fakeAWSRepository) GetAccountIdentity(ctx context.Context) (string, string, error) {
	return "123456789012", "123456789012 (dev)", nil
}

func (f *fakeAWSRepository) GetAccessibleRegions(ctx context.Context) ([]string, error) {
	return f.regions, f.regionErr
}

func (f *fakeAWSRepository) ListEC2Instances(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	if err := f.failEC2[region]; err != nil {
		return nil, err
	}
	return f.instances[region], nil
}

func (f *fakeAWSRepository) ListVolumes(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	return nil, nil
}
func (f *fakeAWSRepository) ListAddresses(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	return nil, nil
}
func (f *fakeAWSRepository) ListRDSInstances(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	return nil, nil
}
func (f *fakeAWSRepository) ListLambdaFunctions(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	return nil, nil
}
func (f *fakeAWSRepository) ListLogGroups(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	return nil, nil
}
func (f *fakeAWSRepository) ListAlarms(ctx context.Context, region string) ([]entity.ResourceRecord, error) {
	return nil, nil
}
func (f *fakeAWSRepository) ListS3Buckets(ctx context.Context) ([]entity.ResourceRecord, error) {
	return nil, nil
}

func (f *fakeAWSRepository) GetCostSummary(ctx context.Context) (entity.CostData, error) {
	if f.costErr != nil {
		return entity.CostData{}, f.costErr
	}
	return entity.CostData{CurrentMonthCost: 12.34, LastMonthCost: 20}, nil
}

func (f *fakeAWSRepository) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	return []entity.BudgetInfo{{Name: "monthly", Limit: 100, Actual: 10}}, nil
}

func (f *fakeAWSRepository) FindIdleInstances(ctx context.Context, records []entity.ResourceRecord) ([]entity.IdleResource, error) {
	return nil, nil
}

type fakeRenderer struct {
	mu      sync.Mutex
	started bool
	stopped bool
	snaps   []entity.AggregateSnapshot
}

func (r *fakeRenderer) Start() error { r.started = true; return nil }
func (r *fakeRenderer) Stop()        { r.stopped = true }
func (r *fakeRenderer) Render(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, nextScan time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

type fakeStore struct {
	mu       sync.Mutex
	appended []entity.AggregateSnapshot
	rows     []entity.ScanHistoryRow // when set, RecentScans returns these
}

func (s *fakeStore) AppendScan(ctx context.Context, snap entity.AggregateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, snap)
	return nil
}

func (s *fakeStore) RecentScans(ctx context.Context, limit int) ([]entity.ScanHistoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows != nil {
		return s.rows, nil
	}
	rows := make([]entity.ScanHistoryRow, 0, len(s.appended))
	for i, snap := range s.appended {
		rows = append(rows, entity.ScanHistoryRow{
			ID:             int64(i + 1),
			Timestamp:      snap.Timestamp,
			TotalResources: snap.TotalResources(),
			TotalMonthly:   snap.TotalMonthly,
		})
	}
	return rows, nil
}

func (s *fakeStore) Close() error { return nil }

type nopConsole struct{}

func (nopConsole) Print(a ...interface{})                    {}
func (nopConsole) Printf(format string, a ...interface{})    {}
func (nopConsole) Println(a ...interface{})                  {}
func (nopConsole) LogInfo(format string, a ...interface{})   {}
func (nopConsole) LogWarning(format string, a ...interface{}) {}
func (nopConsole) LogError(format string, a ...interface{})  {}
func (nopConsole) LogSuccess(format string, a ...interface{}) {}
func (nopConsole) Status(message string) types.StatusHandle  { return nopStatus{} }

type nopStatus struct{}

func (nopStatus) Update(message string) {}
func (nopStatus) Stop()                 {}

func newTestUseCase(repo repository.AWSRepository, renderer Renderer, store *fakeStore) *ScanUseCase {
	opener := func(path string) (repository.StoreRepository, error) {
		if store == nil {
			return nil, errors.New("no store")
		}
		return store, nil
	}
	return NewScanUseCase(
		repo, nil, nil, nopConsole{}, renderer, opener,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func runningMicro(region string, launched time.Time) entity.ResourceRecord {
	return entity.EC2Record{ResourceMeta: entity.ResourceMeta{
		ID:      "i-" + region,
		Service: entity.ServiceEC2,
		Region:  region,
		Class:   "t3.micro",
		Status:  entity.StateRunning,
		Created: launched,
	}}
}

func TestScanOnceMarksFailedCellsUnknown(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeAWSRepository{
		regions: []string{"us-east-1", "eu-west-1"},
		instances: map[string][]entity.ResourceRecord{
			"us-east-1": {runningMicro("us-east-1", now.Add(-time.Hour))},
		},
		failEC2: map[string]error{"eu-west-1": errors.New("request timed out")},
	}
	uc := newTestUseCase(repo, &fakeRenderer{}, nil)
	uc.now = func() time.Time { return now }
	uc.tracker = freetier.NewTracker(freetier.DefaultCapHours)

	snap := uc.scanOnce(context.Background(), types.DefaultConfig(), 1, "123456789012", "dev", 0)

	if len(snap.Unknown) != 1 {
		t.Fatalf("unknown cells = %d, want 1 (%v)", len(snap.Unknown), snap.Unknown)
	}
	want := entity.ServiceRegion{Service: entity.ServiceEC2, Region: "eu-west-1"}
	if snap.Unknown[0] != want {
		t.Fatalf("unknown = %+v, want %+v", snap.Unknown[0], want)
	}
	if snap.Counts[entity.ServiceEC2] != 1 {
		t.Fatalf("ec2 count = %d, want 1 (failed region excluded, not zeroed)", snap.Counts[entity.ServiceEC2])
	}
	if snap.CostUnavailable {
		t.Fatal("cost explorer succeeded, must not be flagged unavailable")
	}
	cellWarning := false
	for _, a := range snap.Alerts {
		if a.Family == "unknown" && a.Severity == entity.SeverityWarning && strings.Contains(a.Message, "eu-west-1") {
			cellWarning = true
		}
	}
	if !cellWarning {
		t.Fatal("failed cell must surface as a warning finding")
	}
}

func TestScanOnceDegradesWhenDiscoveryFails(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeAWSRepository{regionErr: errors.New("ec2 unreachable")}
	uc := newTestUseCase(repo, &fakeRenderer{}, nil)
	uc.now = func() time.Time { return now }
	uc.tracker = freetier.NewTracker(freetier.DefaultCapHours)

	cfg := types.DefaultConfig()
	cfg.Regions = nil
	snap := uc.scanOnce(context.Background(), cfg, 1, "123456789012", "dev", 0)

	if !snap.DiscoveryDegraded {
		t.Fatal("discovery failure must mark the snapshot degraded")
	}
	if len(snap.Regions) != len(fallbackRegions) {
		t.Fatalf("regions = %v, want fallback list", snap.Regions)
	}
	degradedAlert := false
	for _, a := range snap.Alerts {
		if a.Family == "region" && a.Severity == entity.SeverityWarning {
			degradedAlert = true
		}
	}
	if !degradedAlert {
		t.Fatal("expected a region-degraded warning alert")
	}
}

func TestScanOnceCostFailureMarksUnavailable(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeAWSRepository{
		regions: []string{"us-east-1"},
		costErr: errors.New("ce access denied"),
	}
	uc := newTestUseCase(repo, &fakeRenderer{}, nil)
	uc.now = func() time.Time { return now }
	uc.tracker = freetier.NewTracker(freetier.DefaultCapHours)

	snap := uc.scanOnce(context.Background(), types.DefaultConfig(), 1, "123456789012", "dev", 0)
	if !snap.CostUnavailable {
		t.Fatal("cost failure must flag CostUnavailable, never report zero")
	}
	if snap.Cost.CurrentMonthCost != 0 {
		t.Fatalf("cost data = %v, want zero value alongside the flag", snap.Cost)
	}
}

func TestRunStopsCleanlyOnCancel(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeAWSRepository{
		regions: []string{"us-east-1"},
		instances: map[string][]entity.ResourceRecord{
			"us-east-1": {runningMicro("us-east-1", now.Add(-time.Hour))},
		},
	}
	renderer := &fakeRenderer{}
	store := &fakeStore{}
	uc := newTestUseCase(repo, renderer, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.Run(ctx, types.DefaultConfig()) }()

	// espera o primeiro ciclo e cancela
	deadline := time.After(5 * time.Second)
	for {
		renderer.mu.Lock()
		rendered := len(renderer.snaps)
		renderer.mu.Unlock()
		if rendered > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first scan never rendered")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil on clean interrupt", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if !renderer.started || !renderer.stopped {
		t.Fatal("renderer must be started and stopped around the loop")
	}
	store.mu.Lock()
	appended := len(store.appended)
	store.mu.Unlock()
	if appended == 0 {
		t.Fatal("first scan must be persisted")
	}
}

func TestSeedFreeTierResumesSameMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []entity.ScanHistoryRow{{
		Timestamp:        now.Add(-2 * time.Hour),
		FreeTierEC2Hours: 340,
		FreeTierRDSHours: 12,
	}}}
	uc := newTestUseCase(&fakeAWSRepository{}, &fakeRenderer{}, store)
	uc.now = func() time.Time { return now }
	uc.tracker = freetier.NewTracker(freetier.DefaultCapHours)

	uc.seedFreeTier(context.Background(), store)

	for _, u := range uc.tracker.Usage() {
		switch u.Category {
		case entity.FreeTierEC2:
			if u.HoursUsed != 340 {
				t.Fatalf("ec2 hours = %v, want 340 resumed from history", u.HoursUsed)
			}
		case entity.FreeTierRDS:
			if u.HoursUsed != 12 {
				t.Fatalf("rds hours = %v, want 12 resumed from history", u.HoursUsed)
			}
		}
	}
}

func TestSeedFreeTierIgnoresPreviousMonth(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	store := &fakeStore{rows: []entity.ScanHistoryRow{{
		Timestamp:        time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC),
		FreeTierEC2Hours: 700,
	}}}
	uc := newTestUseCase(&fakeAWSRepository{}, &fakeRenderer{}, store)
	uc.now = func() time.Time { return now }
	uc.tracker = freetier.NewTracker(freetier.DefaultCapHours)

	uc.seedFreeTier(context.Background(), store)

	for _, u := range uc.tracker.Usage() {
		if u.HoursUsed != 0 {
			t.Fatalf("%s hours = %v, want 0 after month change", u.Category, u.HoursUsed)
		}
	}
}

func TestResolveConfigFlagOverrides(t *testing.T) {
	cfg, err := ResolveConfig(nil, types.CLIArgs{
		Regions:  []string{"sa-east-1"},
		Interval: 2 * time.Minute,
	})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.IntervalSeconds != 120 {
		t.Fatalf("interval = %d, want 120", cfg.IntervalSeconds)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0] != "sa-east-1" {
		t.Fatalf("regions = %v", cfg.Regions)
	}
	// defaults preserved
	if cfg.DBPath != "costwatch.db" {
		t.Fatalf("db path = %q, want default", cfg.DBPath)
	}

	fast, err := ResolveConfig(nil, types.CLIArgs{Fast: true})
	if err != nil {
		t.Fatalf("resolve fast config: %v", err)
	}
	if fast.IntervalSeconds != 60 {
		t.Fatalf("fast interval = %d, want 60", fast.IntervalSeconds)
	}
}
