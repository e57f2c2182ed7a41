package notifier

import (
	"fmt"
	"strings"

	"smarttrader/internal/model"
)

func labelIcon(l model.Label) string {
	switch l {
	case model.LabelBull:
		return "🟢"
	case model.LabelBear:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatDigest renders a forecast and its summary as a Telegram HTML message.
func FormatDigest(fc *model.Forecast, sum *model.Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s forecast</b> | as of %s\n\n", fc.Ticker, fc.AsOf.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Avg close: %.2f\n", sum.Avg))
	b.WriteString(fmt.Sprintf("High: %.2f | Low: %.2f\n\n", sum.High, sum.Low))

	b.WriteString("<b>Daily outlook:</b>\n")
	for i, e := range fc.Entries {
		label := model.LabelIdle
		if i < len(sum.Strategy) {
			label = sum.Strategy[i].Label
		}
		b.WriteString(fmt.Sprintf("  %s %s %s  O %.2f → C %.2f\n",
			labelIcon(label), e.Date.Format(model.DateLayout), label, e.Open, e.Close))
	}
	return b.String()
}

// FormatComparison lines up forecast rows with realised bars by date.
func FormatComparison(fc *model.Forecast, actual []model.Bar) string {
	byDate := make(map[string]model.Bar, len(actual))
	for _, a := range actual {
		byDate[a.Date.Format(model.DateLayout)] = a
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s predicted vs actual</b> | as of %s\n\n", fc.Ticker, fc.AsOf.Format(model.DateLayout)))
	for _, e := range fc.Entries {
		d := e.Date.Format(model.DateLayout)
		if a, ok := byDate[d]; ok {
			b.WriteString(fmt.Sprintf("%s  close %.2f vs %.2f (%+.2f)\n", d, e.Close, a.Close, a.Close-e.Close))
		} else {
			b.WriteString(fmt.Sprintf("%s  close %.2f vs n/a\n", d, e.Close))
		}
	}
	return b.String()
}

// FormatHelp lists the commands the bot understands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /predict [YYYY-MM-DD] [TICKER]\n" +
		"• /compare YYYY-MM-DD [TICKER]\n" +
		"• /history"
}
