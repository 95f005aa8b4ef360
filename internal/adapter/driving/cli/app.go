package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-costwatch-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-costwatch-go/internal/adapter/driven/config"
	"github.com/diillson/aws-costwatch-go/internal/adapter/driven/export"
	"github.com/diillson/aws-costwatch-go/internal/adapter/driven/store"
	"github.com/diillson/aws-costwatch-go/internal/adapter/driving/dashboard"
	"github.com/diillson/aws-costwatch-go/internal/application/usecase"
	"github.com/diillson/aws-costwatch-go/internal/shared/logging"
	"github.com/diillson/aws-costwatch-go/internal/shared/types"
	"github.com/diillson/aws-costwatch-go/pkg/console"
	"github.com/diillson/aws-costwatch-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	version string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "aws-costwatch",
		Short:   "AWS CostWatch terminal dashboard",
		Long:    "Continuously scans AWS read-only APIs, estimates spend and renders a live terminal dashboard. Stop with Ctrl+C.",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS CostWatch version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile to use (default: environment / default chain)")
	rootCmd.PersistentFlags().StringSliceP("regions", "r", nil, "AWS regions to scan (comma-separated; default: all accessible regions)")
	rootCmd.PersistentFlags().DurationP("interval", "i", 0, "Interval between scans, e.g. 5m (default: 10m)")
	rootCmd.PersistentFlags().Bool("fast", false, "Scan every 60s, overrides --interval")
	rootCmd.PersistentFlags().String("db-path", "", "Path to the sqlite scan history database (default: costwatch.db)")
	rootCmd.PersistentFlags().Bool("no-history", false, "Disable sqlite scan history")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the diagnostic log file (default: aws_costwatch.log)")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Base name for report files written on shutdown (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Report types to write on shutdown: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with the given context. O contexto
// carrega o cancelamento por SIGINT/SIGTERM vindo do main.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profile, _ := flags.GetString("profile")
	regions, _ := flags.GetStringSlice("regions")
	interval, _ := flags.GetDuration("interval")
	fast, _ := flags.GetBool("fast")
	dbPath, _ := flags.GetString("db-path")
	noHistory, _ := flags.GetBool("no-history")
	logFile, _ := flags.GetString("log-file")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return types.CLIArgs{}, err
		}
		dir = absDir
	}

	return types.CLIArgs{
		ConfigFile: configFile,
		Profile:    profile,
		Regions:    regions,
		Interval:   interval,
		Fast:       fast,
		DBPath:     dbPath,
		NoHistory:  noHistory,
		LogFile:    logFile,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
	}, nil
}

// runCommand é o ponto de entrada principal para o comando CLI. Monta os
// adapters com a configuração resolvida e entrega o loop ao caso de uso.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	configRepo := config.NewConfigRepository()
	cfg, err := usecase.ResolveConfig(configRepo, cliArgs)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.NewFileLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	scanUseCase := usecase.NewScanUseCase(
		aws.NewAWSRepository(cfg.Profile),
		configRepo,
		export.NewExportRepository(),
		console.NewConsole(),
		dashboard.NewRenderer(),
		store.Open,
		logger,
	)

	return scanUseCase.Run(cmd.Context(), cfg)
}
