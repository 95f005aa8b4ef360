package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
	"github.com/diillson/aws-costwatch-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportToCSV grava o histórico de scans, uma linha por ciclo.
func (r *ExportRepositoryImpl) ExportToCSV(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Timestamp", "Total Resources", "Hourly Cost", "Daily Cost",
		"Monthly Projection", "Transfer North-South", "Transfer East-West",
		"Zombie Volumes", "Free Tier Max %", "Alerts",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range history {
		record := []string{
			row.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%d", row.TotalResources),
			fmt.Sprintf("$%.4f", row.TotalHourly),
			fmt.Sprintf("$%.2f", row.TotalDaily),
			fmt.Sprintf("$%.2f", row.TotalMonthly),
			fmt.Sprintf("$%.2f", row.NorthSouth),
			fmt.Sprintf("$%.2f", row.EastWest),
			fmt.Sprintf("%d", row.ZombieCount),
			fmt.Sprintf("%.1f%%", row.FreeTierMaxPct),
			fmt.Sprintf("%d", row.AlertCount),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

// ExportToJSON grava o snapshot final junto com o histórico recente.
func (r *ExportRepositoryImpl) ExportToJSON(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	report := struct {
		GeneratedAt    time.Time                `json:"generated_at"`
		AccountID      string                   `json:"account_id"`
		Regions        []string                 `json:"regions"`
		ScanNumber     int                      `json:"scan_number"`
		TotalResources int                      `json:"total_resources"`
		TotalHourly    float64                  `json:"total_hourly"`
		TotalDaily     float64                  `json:"total_daily"`
		TotalMonthly   float64                  `json:"total_monthly"`
		TotalLifetime  float64                  `json:"total_lifetime"`
		Cost           entity.CostData          `json:"cost_explorer"`
		Budgets        []entity.BudgetInfo      `json:"budgets"`
		FreeTier       []entity.FreeTierUsage   `json:"free_tier"`
		Estimates      []entity.CostEstimate    `json:"estimates"`
		Alerts         []entity.Alert           `json:"alerts"`
		History        []entity.ScanHistoryRow  `json:"history"`
	}{
		GeneratedAt:    snap.Timestamp,
		AccountID:      snap.AccountID,
		Regions:        snap.Regions,
		ScanNumber:     snap.ScanNumber,
		TotalResources: snap.TotalResources(),
		TotalHourly:    snap.TotalHourly,
		TotalDaily:     snap.TotalDaily,
		TotalMonthly:   snap.TotalMonthly,
		TotalLifetime:  snap.TotalLifetime,
		Cost:           snap.Cost,
		Budgets:        snap.Budgets,
		FreeTier:       snap.FreeTier,
		Estimates:      snap.Estimates,
		Alerts:         snap.Alerts,
		History:        history,
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF gera um relatório de uma página com o resumo do último
// snapshot e a tabela de histórico.
func (r *ExportRepositoryImpl) ExportToPDF(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  AWS CostWatch Report"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account: %s    Generated: %s", snap.AccountAlias, snap.Timestamp.Format("2006-01-02 15:04 UTC"))), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(50, 50, 50)
	}

	section("Cost Summary")
	pdf.MultiCell(190, 5, tr(fmt.Sprintf(
		"Resources: %d    Hourly: $%.4f    Daily: $%.2f    Monthly projection: $%.2f\nCost Explorer this month: $%.2f    Last month: $%.2f",
		snap.TotalResources(), snap.TotalHourly, snap.TotalDaily, snap.TotalMonthly,
		snap.Cost.CurrentMonthCost, snap.Cost.LastMonthCost,
	)), "", "L", false)
	pdf.Ln(6)

	if len(snap.Alerts) > 0 {
		section("Alerts")
		for _, a := range snap.Alerts {
			pdf.MultiCell(190, 5, tr(fmt.Sprintf("[%s] %s", a.Severity, a.Message)), "", "L", false)
		}
		pdf.Ln(6)
	}

	section("Scan History")
	pdf.SetFont("Arial", "B", 9)
	widths := []float64{40, 28, 28, 32, 30, 32}
	headers := []string{"Timestamp", "Resources", "Hourly", "Monthly", "Zombies", "Alerts"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range history {
		cells := []string{
			row.Timestamp.Format("01-02 15:04"),
			fmt.Sprintf("%d", row.TotalResources),
			fmt.Sprintf("$%.4f", row.TotalHourly),
			fmt.Sprintf("$%.2f", row.TotalMonthly),
			fmt.Sprintf("%d", row.ZombieCount),
			fmt.Sprintf("%d", row.AlertCount),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
