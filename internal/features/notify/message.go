package notify

import (
	"fmt"
	"strings"

	"fdf-monitor/internal/features/history"
	"fdf-monitor/internal/infra/fs"
)

const separator = "----------------------"

// Message is what every channel delivers. ChartPath is optional.
type Message struct {
	Portfolio string
	Title     string
	Body      string
	ChartPath string
}

// BuildMessage renders the run summary. The title is the total, followed by
// the signed percentage and a trend icon when a comparison exists.
func BuildMessage(portfolio string, r fs.Record, change *history.Change) Message {
	return Message{
		Portfolio: portfolio,
		Title:     FormatTitle(r.TotalValue, change),
		Body:      FormatBody(r),
	}
}

func FormatTitle(total float64, change *history.Change) string {
	title := fmt.Sprintf("$%.2f", total)
	if change == nil {
		return title
	}
	sign, icon := "", "📉"
	if change.Up() {
		sign, icon = "+", "📈"
	}
	return fmt.Sprintf("%s %s%.2f%%%s", title, sign, change.Percent, icon)
}

func FormatBody(r fs.Record) string {
	var b strings.Builder
	b.WriteString(separator)
	fmt.Fprintf(&b, "\nBalance: $%.2f", r.OnChainBalance)
	fmt.Fprintf(&b, "\nGold: $%.2f", r.SecondaryBalance)
	fmt.Fprintf(&b, "\nHoldings: $%.2f", r.HoldingValue)
	return b.String()
}
