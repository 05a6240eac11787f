package bot

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{name: "start with email", text: "/start tesoreria@empresa.com.ar", want: Command{Kind: CmdStart, Arg: "tesoreria@empresa.com.ar"}},
		{name: "portfolio", text: "/cartera", want: Command{Kind: CmdPortfolio}},
		{name: "case insensitive", text: "/CARTERA", want: Command{Kind: CmdPortfolio}},
		{name: "cuit with argument", text: "/cuit 30-71111111-8", want: Command{Kind: CmdCUIT, Arg: "30-71111111-8"}},
		{name: "manana with accent", text: "/mañana", want: Command{Kind: CmdDueTomorrow}},
		{name: "leading whitespace", text: "   /saldos  ", want: Command{Kind: CmdBalances}},
		{name: "unknown command", text: "/dolar", want: Command{Kind: CmdUnknown}},
		{name: "free text", text: "hola, cómo va?", want: Command{Kind: CmdUnknown}},
		{name: "empty", text: "", want: Command{Kind: CmdUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
