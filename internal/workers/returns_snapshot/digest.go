package returns_snapshot

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

// FormatAmount renders amount with the symbol and separators of currency.
// Unknown currencies fall back to the plain decimal followed by the code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	fraction := int32(cur.Fraction)
	minor := amount.Round(fraction).Shift(fraction)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// Digest is the daily portfolio summary message
type Digest struct {
	Subject string
	Text    string
	HTML    string
}

// BuildDigest summarises a report with one line per currency
func BuildDigest(report *entities.PortfolioReport) Digest {
	currencies := make([]string, 0, len(report.Summary.ByCurrency))
	for currency := range report.Summary.ByCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	date := report.AsOf.Format("2006-01-02")
	var text, body strings.Builder
	fmt.Fprintf(&text, "Portfolio summary for %s\n\n", date)
	fmt.Fprintf(&body, "<h2>Portfolio summary for %s</h2><table>", date)
	body.WriteString("<tr><th>Currency</th><th>Value</th><th>Cost basis</th><th>Return</th></tr>")

	for _, currency := range currencies {
		totals := report.Summary.ByCurrency[currency]
		value := FormatAmount(totals.CurrentValue, currency)
		basis := FormatAmount(totals.CostBasis, currency)
		gain := FormatAmount(totals.AbsoluteReturn, currency)
		pct := totals.PercentageReturn.StringFixed(2) + "%"

		fmt.Fprintf(&text, "%s: %s (cost %s, return %s / %s)\n", currency, value, basis, gain, pct)
		fmt.Fprintf(&body, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s (%s)</td></tr>",
			html.EscapeString(currency), html.EscapeString(value), html.EscapeString(basis),
			html.EscapeString(gain), pct)
	}
	body.WriteString("</table>")

	if len(currencies) == 0 {
		text.WriteString("No priced assets.\n")
		body.WriteString("<p>No priced assets.</p>")
	}
	if n := report.Summary.UnpricedCount; n > 0 {
		fmt.Fprintf(&text, "\n%d asset(s) could not be priced.\n", n)
		fmt.Fprintf(&body, "<p>%d asset(s) could not be priced.</p>", n)
	}
	if n := report.Summary.InvalidCount; n > 0 {
		fmt.Fprintf(&text, "%d asset(s) have invalid records.\n", n)
		fmt.Fprintf(&body, "<p>%d asset(s) have invalid records.</p>", n)
	}

	return Digest{
		Subject: "Portfolio summary " + date,
		Text:    text.String(),
		HTML:    body.String(),
	}
}
