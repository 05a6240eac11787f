// Package bot implements the chat side of the service: parsing inbound
// commands and rendering report payloads as Spanish text.
package bot

import "strings"

// CommandKind identifies one chat command
type CommandKind string

const (
	CmdStart       CommandKind = "start"
	CmdPortfolio   CommandKind = "portfolio"
	CmdDueToday    CommandKind = "due_today"
	CmdDueTomorrow CommandKind = "due_tomorrow"
	CmdWeek        CommandKind = "week"
	CmdBalances    CommandKind = "balances"
	CmdAlerts      CommandKind = "alerts"
	CmdCUIT        CommandKind = "cuit"
	CmdSummary     CommandKind = "summary"
	CmdSubscribe   CommandKind = "subscribe"
	CmdUnsubscribe CommandKind = "unsubscribe"
	CmdHelp        CommandKind = "help"
	CmdUnknown     CommandKind = "unknown"
)

// Command is one parsed chat message
type Command struct {
	Kind CommandKind
	Arg  string
}

// Parse maps a raw chat message to a command. The command word is
// case-insensitive; everything after it is the argument.
func Parse(text string) Command {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Command{Kind: CmdUnknown}
	}

	arg := strings.Join(fields[1:], " ")

	switch strings.ToLower(fields[0]) {
	case "/start", "/registrar":
		return Command{Kind: CmdStart, Arg: arg}
	case "/cartera":
		return Command{Kind: CmdPortfolio}
	case "/hoy":
		return Command{Kind: CmdDueToday}
	case "/manana", "/mañana":
		return Command{Kind: CmdDueTomorrow}
	case "/semana":
		return Command{Kind: CmdWeek}
	case "/saldos":
		return Command{Kind: CmdBalances}
	case "/alertas":
		return Command{Kind: CmdAlerts}
	case "/cuit":
		return Command{Kind: CmdCUIT, Arg: arg}
	case "/resumen":
		return Command{Kind: CmdSummary}
	case "/suscribir":
		return Command{Kind: CmdSubscribe}
	case "/baja":
		return Command{Kind: CmdUnsubscribe}
	case "/ayuda", "/help":
		return Command{Kind: CmdHelp}
	default:
		return Command{Kind: CmdUnknown}
	}
}
