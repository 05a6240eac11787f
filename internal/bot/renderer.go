package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/treasury-reporter/internal/service"
)

const displayDateLayout = "02/01/2006"

// Renderer turns report payloads into the Spanish text the chat transport
// delivers. Values come from the report layer; only presentation lives here.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer creates a renderer with es-AR number formatting
func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.Spanish)}
}

// Amount formats a monetary value with thousands separators
func (r *Renderer) Amount(d decimal.Decimal) string {
	return r.printer.Sprintf("$%.2f", d.InexactFloat64())
}

func (r *Renderer) day(key string) string {
	t, err := time.Parse(service.DueDateKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format(displayDateLayout)
}

// Portfolio renders the held-cheques report
func (r *Renderer) Portfolio(rep *service.PortfolioReport) string {
	var b strings.Builder
	b.WriteString("📋 Cartera de cheques\n")
	fmt.Fprintf(&b, "Total: %s (%d cheques)\n", r.Amount(rep.Total), rep.Count)
	for _, slice := range rep.Companies {
		fmt.Fprintf(&b, "  %s: %s (%d)\n", slice.Company, r.Amount(slice.Amount), slice.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Due renders a single-day maturity report
func (r *Renderer) Due(title string, rep *service.DueReport) string {
	if rep.Count == 0 {
		return fmt.Sprintf("%s (%s): sin vencimientos ✅", title, r.day(rep.Day))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %d cheques por %s\n", title, r.day(rep.Day), rep.Count, r.Amount(rep.Total))
	for _, line := range rep.Samples {
		fmt.Fprintf(&b, "  • %s — %s\n", line.Counterparty, r.Amount(line.Amount))
	}
	if rep.Overflow > 0 {
		fmt.Fprintf(&b, "  … y %d más\n", rep.Overflow)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Week renders the seven-day breakdown
func (r *Renderer) Week(rep *service.DueWeekReport) string {
	if rep.Count == 0 {
		return "📆 Próximos 7 días: sin vencimientos ✅"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📆 Próximos 7 días: %d cheques por %s\n", rep.Count, r.Amount(rep.Total))
	for _, d := range rep.Days {
		fmt.Fprintf(&b, "  %s: %d por %s\n", r.day(d.Day), d.Count, r.Amount(d.Amount))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Balances renders the treasury accounts report
func (r *Renderer) Balances(rep *service.BalancesReport) string {
	if !rep.Available {
		return "🏦 Saldos: sin datos disponibles"
	}

	var b strings.Builder
	b.WriteString("🏦 Saldos de cuentas\n")
	for _, acc := range rep.Accounts {
		flag := "🟢"
		if acc.Negative {
			flag = "🔴"
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", flag, acc.Name, r.Amount(acc.Amount))
	}
	fmt.Fprintf(&b, "Total: %s\n", r.Amount(rep.Total))
	return strings.TrimRight(b.String(), "\n")
}

// Alerts renders the risk alerts report
func (r *Renderer) Alerts(rep *service.AlertsReport) string {
	if !rep.HasAlerts() {
		return "✅ Sin alertas"
	}

	var b strings.Builder
	b.WriteString("⚠️ Alertas\n")
	if rep.Overdue != nil {
		fmt.Fprintf(&b, "  🔴 Vencidos: %d cheques por %s\n", rep.Overdue.Count, r.Amount(rep.Overdue.Total))
	}
	if rep.Validity != nil {
		fmt.Fprintf(&b, "  🟠 Por perder validez: %d cheques por %s\n", rep.Validity.Count, r.Amount(rep.Validity.Total))
	}
	if rep.Concentration != nil {
		fmt.Fprintf(&b, "  🟡 Concentración crítica: %d emisores superan el %d%%\n",
			rep.Concentration.IssuerCount, service.ConcentrationThresholdPct)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CUIT renders the historical lookup report
func (r *Renderer) CUIT(rep *service.CUITReport) string {
	if !rep.Found {
		return fmt.Sprintf("🔍 CUIT %s: sin cheques registrados", rep.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 CUIT %s — %s\n", rep.Query, rep.Counterparty)
	fmt.Fprintf(&b, "  En cartera: %d por %s\n", rep.InPortfolioCount, r.Amount(rep.InPortfolioTotal))
	fmt.Fprintf(&b, "  Entregados: %d por %s\n", rep.DeliveredCount, r.Amount(rep.DeliveredTotal))
	fmt.Fprintf(&b, "  Histórico total: %s\n", r.Amount(rep.HistoricalTotal))
	return strings.TrimRight(b.String(), "\n")
}

// Summary renders the executive digest
func (r *Renderer) Summary(rep *service.SummaryReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Resumen ejecutivo — %s\n", r.day(rep.Day))
	fmt.Fprintf(&b, "Cartera: %s (%d cheques)\n", r.Amount(rep.PortfolioTotal), rep.PortfolioCount)
	fmt.Fprintf(&b, "Vencen hoy: %d por %s\n", rep.DueTodayCount, r.Amount(rep.DueTodayTotal))
	fmt.Fprintf(&b, "Vencen mañana: %d por %s\n", rep.DueTomorrowCount, r.Amount(rep.DueTomorrowTotal))
	fmt.Fprintf(&b, "Próximos 7 días: %d por %s\n", rep.DueWeekCount, r.Amount(rep.DueWeekTotal))
	fmt.Fprintf(&b, "Próximos 15 días: %d por %s\n", rep.DueFortnightCount, r.Amount(rep.DueFortnightTotal))
	if rep.BalancesAvailable {
		fmt.Fprintf(&b, "Saldos: %s\n", r.Amount(rep.BalancesTotal))
	} else {
		b.WriteString("Saldos: sin datos\n")
	}
	if rep.ValidityCritical > 0 {
		fmt.Fprintf(&b, "⚠️ %d cheques por perder validez\n", rep.ValidityCritical)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Validity renders the validity-critical broadcast
func (r *Renderer) Validity(rep *service.ValidityAlert) string {
	return fmt.Sprintf("🟠 Atención: %d cheques pierden validez en los próximos días (total %s)",
		rep.Count, r.Amount(rep.Total))
}

// Help renders the command reference
func (r *Renderer) Help() string {
	return strings.Join([]string{
		"Comandos disponibles:",
		"/start <email> — registrarse",
		"/cartera — cartera de cheques",
		"/hoy — vencimientos de hoy",
		"/manana — vencimientos de mañana",
		"/semana — próximos 7 días",
		"/saldos — saldos de cuentas",
		"/alertas — alertas de riesgo",
		"/cuit <número> — historial por CUIT",
		"/resumen — resumen ejecutivo",
		"/suscribir — recibir avisos programados",
		"/baja — dejar de recibir avisos",
	}, "\n")
}

// Registered renders the successful registration reply
func (r *Renderer) Registered(email string) string {
	return fmt.Sprintf("✅ Registrado como %s. Escribí /ayuda para ver los comandos.", email)
}

// Subscribed renders the subscription confirmation reply
func (r *Renderer) Subscribed() string {
	return "🔔 Listo, vas a recibir los avisos programados en este chat."
}

// Unsubscribed renders the unsubscription confirmation reply
func (r *Renderer) Unsubscribed() string {
	return "🔕 Listo, no vas a recibir más avisos en este chat."
}

// InvalidCUIT renders the rejection for a malformed lookup term
func (r *Renderer) InvalidCUIT() string {
	return "⚠️ El CUIT debe tener al menos 8 dígitos. Ejemplo: /cuit 30-71111111-8"
}

// Failure renders the generic failure reply. Internal detail never reaches
// the chat.
func (r *Renderer) Failure() string {
	return "❌ No pude generar el informe, probá de nuevo en unos minutos."
}

// Unauthorized renders the access-gate rejection reply
func (r *Renderer) Unauthorized() string {
	return "🔒 No estás autorizado. Registrate con /start <email>."
}
