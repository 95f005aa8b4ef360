// Package dashboard renderiza o snapshot de cada ciclo em tela cheia com
// pterm. Cada ciclo redesenha tudo; não há estado incremental além da área.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/diillson/aws-costwatch-go/internal/domain/entity"
)

const (
	breakdownTop  = 8
	trendBarWidth = 30
)

// Renderer desenha o dashboard em uma pterm.Area de tela cheia.
type Renderer struct {
	area *pterm.AreaPrinter
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Start toma a tela. Deve ser chamado uma vez, antes do primeiro Render.
func (r *Renderer) Start() error {
	area, err := pterm.DefaultArea.WithFullscreen().WithCenter(false).Start()
	if err != nil {
		return fmt.Errorf("start dashboard area: %w", err)
	}
	r.area = area
	return nil
}

// Stop devolve a tela ao terminal.
func (r *Renderer) Stop() {
	if r.area != nil {
		_ = r.area.Stop()
	}
}

// Render redesenha todos os painéis para o snapshot dado. Um snapshot
// parcial (células unknown, custo indisponível) rende placeholders em vez
// de quebrar o layout.
func (r *Renderer) Render(snap entity.AggregateSnapshot, history []entity.ScanHistoryRow, nextScan time.Time) {
	if r.area == nil {
		return
	}

	left := strings.Join([]string{
		costSummaryPanel(snap),
		freeTierPanel(snap),
		budgetPanel(snap),
		trendPanel(history),
	}, "\n")
	right := strings.Join([]string{
		inventoryPanel(snap),
		breakdownPanel(snap),
		alertsPanel(snap),
	}, "\n")

	panels := pterm.Panels{
		{{Data: left}, {Data: right}},
		{{Data: statusFooter(snap, nextScan)}},
	}
	content, err := pterm.DefaultPanel.WithPanels(panels).WithPadding(2).Srender()
	if err != nil {
		return
	}
	r.area.Update(content)
}

func box(title, content string) string {
	return pterm.DefaultBox.
		WithTitle(title).
		WithTitleTopLeft().
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(content)
}

func renderTable(data pterm.TableData) string {
	out, _ := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	return out
}

func costSummaryPanel(snap entity.AggregateSnapshot) string {
	data := pterm.TableData{{"", "Amount"}}
	data = append(data,
		[]string{"Estimated hourly", fmt.Sprintf("$%.4f", snap.TotalHourly)},
		[]string{"Estimated daily", fmt.Sprintf("$%.2f", snap.TotalDaily)},
		[]string{"Projected monthly", fmt.Sprintf("$%.2f", snap.TotalMonthly)},
		[]string{"Lifetime to date", fmt.Sprintf("$%.2f", snap.TotalLifetime)},
	)
	if snap.CostUnavailable {
		data = append(data, []string{"Cost Explorer", pterm.FgGray.Sprint("unavailable")})
	} else {
		data = append(data,
			[]string{"This month (CE)", fmt.Sprintf("$%.2f", snap.Cost.CurrentMonthCost)},
			[]string{"Last month (CE)", fmt.Sprintf("$%.2f", snap.Cost.LastMonthCost)},
			[]string{"Transfer N-S / E-W", fmt.Sprintf("$%.2f / $%.2f", snap.Cost.TransferNorthSouth, snap.Cost.TransferEastWest)},
		)
	}
	note := ""
	if snap.EstimatedPartial {
		note = pterm.FgGray.Sprint("\n some rates are fallback estimates")
	}
	return box("Cost Summary", renderTable(data)+note)
}

func inventoryPanel(snap entity.AggregateSnapshot) string {
	if len(snap.Counts) == 0 && len(snap.Unknown) == 0 {
		return box("Inventory", pterm.FgGray.Sprint("no resources scanned yet"))
	}

	unknown := map[entity.ServiceKind]int{}
	for _, cell := range snap.Unknown {
		unknown[cell.Service]++
	}

	data := pterm.TableData{{"Service", "Count"}}
	order := append([]entity.ServiceKind{}, entity.ScanServices...)
	order = append(order, entity.ServiceS3)
	for _, svc := range order {
		count := fmt.Sprintf("%d", snap.Counts[svc])
		if unknown[svc] > 0 {
			count = pterm.FgYellow.Sprintf("%d (+%d region(s) unknown)", snap.Counts[svc], unknown[svc])
		}
		data = append(data, []string{string(svc), count})
	}
	data = append(data, []string{"running / stopped", fmt.Sprintf("%d / %d",
		snap.StateCounts[entity.StateRunning], snap.StateCounts[entity.StateStopped])})
	return box("Inventory", renderTable(data))
}

func breakdownPanel(snap entity.AggregateSnapshot) string {
	if snap.CostUnavailable || len(snap.Cost.CurrentMonthCostByService) == 0 {
		return box("Cost By Service", pterm.FgGray.Sprint("no Cost Explorer data"))
	}
	data := pterm.TableData{{"Service", "This Month"}}
	for i, sc := range snap.Cost.CurrentMonthCostByService {
		if i >= breakdownTop {
			break
		}
		data = append(data, []string{sc.ServiceName, fmt.Sprintf("$%.2f", sc.Cost)})
	}
	return box("Cost By Service", renderTable(data))
}

func freeTierPanel(snap entity.AggregateSnapshot) string {
	if len(snap.FreeTier) == 0 {
		return box("Free Tier", pterm.FgGray.Sprint("no free-tier usage tracked yet"))
	}
	data := pterm.TableData{{"Category", "Hours", "Usage"}}
	for _, u := range snap.FreeTier {
		pct := u.Percent()
		usage := fmt.Sprintf("%.1f%%", pct)
		switch {
		case pct > 95:
			usage = pterm.FgRed.Sprint(usage)
		case pct > 80:
			usage = pterm.FgYellow.Sprint(usage)
		default:
			usage = pterm.FgGreen.Sprint(usage)
		}
		data = append(data, []string{
			string(u.Category),
			fmt.Sprintf("%.0f / %.0f", u.HoursUsed, u.CapHours),
			usage,
		})
	}
	return box("Free Tier", renderTable(data))
}

func budgetPanel(snap entity.AggregateSnapshot) string {
	if snap.BudgetsUnavailable {
		return box("Budgets", pterm.FgGray.Sprint("budgets unavailable"))
	}
	if len(snap.Budgets) == 0 {
		return box("Budgets", pterm.FgGray.Sprint("no budgets configured"))
	}
	data := pterm.TableData{{"Budget", "Limit", "Actual", "Used"}}
	for _, b := range snap.Budgets {
		used := fmt.Sprintf("%.1f%%", b.PercentUsed())
		if b.Actual > b.Limit && b.Limit > 0 {
			used = pterm.FgRed.Sprint(used)
		}
		data = append(data, []string{
			b.Name,
			fmt.Sprintf("$%.2f", b.Limit),
			fmt.Sprintf("$%.2f", b.Actual),
			used,
		})
	}
	return box("Budgets", renderTable(data))
}

func alertsPanel(snap entity.AggregateSnapshot) string {
	if len(snap.Alerts) == 0 {
		return box("Alerts", pterm.FgGreen.Sprint("no findings"))
	}
	var b strings.Builder
	for _, a := range snap.Alerts {
		var tag string
		switch a.Severity {
		case entity.SeverityCritical:
			tag = pterm.BgRed.Sprint(" CRIT ")
		case entity.SeverityWarning:
			tag = pterm.FgYellow.Sprint(" WARN ")
		default:
			tag = pterm.FgCyan.Sprint(" INFO ")
		}
		fmt.Fprintf(&b, "%s %s\n", tag, a.Message)
	}
	return box("Alerts", strings.TrimRight(b.String(), "\n"))
}

func trendPanel(history []entity.ScanHistoryRow) string {
	if len(history) == 0 {
		return box("Trend", pterm.FgGray.Sprint("collecting history..."))
	}

	var maxMonthly float64
	for _, row := range history {
		if row.TotalMonthly > maxMonthly {
			maxMonthly = row.TotalMonthly
		}
	}

	var b strings.Builder
	for _, row := range history {
		barLen := 0
		if maxMonthly > 0 {
			barLen = int(row.TotalMonthly / maxMonthly * trendBarWidth)
		}
		bar := pterm.FgBlue.Sprint(strings.Repeat("█", barLen))
		fmt.Fprintf(&b, "%s %s $%.2f\n", row.Timestamp.Format("15:04"), bar, row.TotalMonthly)
	}
	return box("Trend (monthly projection)", strings.TrimRight(b.String(), "\n"))
}

func statusFooter(snap entity.AggregateSnapshot, nextScan time.Time) string {
	// o estado segue o alerta de custo já avaliado, para que os limiares
	// configurados valham aqui também
	state := pterm.FgGreen.Sprint("NORMAL")
	for _, a := range snap.Alerts {
		if a.Family != "cost" {
			continue
		}
		switch a.Severity {
		case entity.SeverityCritical:
			state = pterm.FgRed.Sprint("HIGH COST")
		case entity.SeverityWarning:
			state = pterm.FgYellow.Sprint("MEDIUM COST")
		}
	}

	account := snap.AccountAlias
	if account == "" {
		account = "unknown account"
	}
	next := "-"
	if !nextScan.IsZero() {
		next = nextScan.Format("15:04:05")
	}
	return pterm.FgGray.Sprintf(
		"%s | regions: %d | scan #%d took %s | next scan %s | state: ",
		account, len(snap.Regions), snap.ScanNumber, snap.Elapsed.Round(time.Millisecond), next,
	) + state
}
