package model

import (
	"github.com/shopspring/decimal"
)

// PortfolioLine is one position combined with its latest quote.
type PortfolioLine struct {
	Ticket               string          `json:"ticket"`
	Quantity             int             `json:"quantity"`
	EntryPrice           decimal.Decimal `json:"entryprice"`
	CurrentPrice         decimal.Decimal `json:"currentprice"`
	DayChange            decimal.Decimal `json:"daychange"`
	PercentChangeDay     decimal.Decimal `json:"percentchangeday"`
	UnrealizedPnlPercent decimal.Decimal `json:"unrealizedpnlpercent"`
}

type PortfolioSummary struct {
	TotalCost     decimal.Decimal `json:"totalcost"`
	TotalValue    decimal.Decimal `json:"totalvalue"`
	UnrealizedPnl decimal.Decimal `json:"unrealizedpnl"`
	ReturnPercent decimal.Decimal `json:"returnpercent"`
}

type PortfolioSnapshot struct {
	Lines   []PortfolioLine  `json:"lines"`
	Summary PortfolioSummary `json:"summary"`
}
