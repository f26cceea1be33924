package model

import "github.com/shopspring/decimal"

// Position is one tracked holding from the stocks table. The "ticket"
// spelling matches the persisted column and the public API payloads.
type Position struct {
	ID         int64           `json:"id"`
	Ticket     string          `json:"ticket"`
	EntryPrice decimal.Decimal `json:"entryprice"`
	Quantity   int             `json:"quantity"`
	Active     bool            `json:"active"`
}

// PositionDraft is a position before the store assigns an id.
type PositionDraft struct {
	Ticket     string
	EntryPrice decimal.Decimal
	Quantity   int
	Active     bool
}

// PositionUpdate is the full-field replace applied by the admin edit action.
// Quantity is not editable there, matching the admin form.
type PositionUpdate struct {
	Ticket     string
	EntryPrice decimal.Decimal
	Active     bool
}
