// Package valuation holds the pure arithmetic of the dashboard: combining a
// position with its latest quote and folding lines into portfolio totals.
// No I/O and no rounding happen here; display formatting is up to the caller.
package valuation

import (
	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Valuate combines a position with its latest quote. A nil quote means the
// fetch failed and there is no prior value: the quote fields stay zero. The
// PnL guard is on the entry price, so a zero current price against a positive
// entry price still yields a defined -100%.
func Valuate(pos model.Position, quote *model.Quote) model.PortfolioLine {
	line := model.PortfolioLine{
		Ticket:     pos.Ticket,
		Quantity:   pos.Quantity,
		EntryPrice: pos.EntryPrice,
	}

	if quote != nil {
		line.CurrentPrice = quote.CurrentPrice
		line.DayChange = quote.DayChange
		line.PercentChangeDay = quote.PercentChangeDay
	}

	if pos.EntryPrice.IsPositive() {
		line.UnrealizedPnlPercent = line.CurrentPrice.Sub(pos.EntryPrice).Div(pos.EntryPrice).Mul(hundred)
	}

	return line
}

// Summarize folds lines into portfolio totals.
func Summarize(lines []model.PortfolioLine) model.PortfolioSummary {
	summary := model.PortfolioSummary{}

	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		summary.TotalCost = summary.TotalCost.Add(line.EntryPrice.Mul(qty))
		summary.TotalValue = summary.TotalValue.Add(line.CurrentPrice.Mul(qty))
	}

	summary.UnrealizedPnl = summary.TotalValue.Sub(summary.TotalCost)

	if summary.TotalCost.IsPositive() {
		summary.ReturnPercent = summary.UnrealizedPnl.Div(summary.TotalCost).Mul(hundred)
	}

	return summary
}
