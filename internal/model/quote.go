package model

import "github.com/shopspring/decimal"

// Quote is one live reading from the quote provider. Never persisted.
type Quote struct {
	CurrentPrice     decimal.Decimal
	DayChange        decimal.Decimal
	PercentChangeDay decimal.Decimal
}
