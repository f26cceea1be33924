package dbModel

import (
	"github.com/shopspring/decimal"
)

type Position struct {
	ID         int64           `db:"id"`
	Ticket     string          `db:"ticket"`
	EntryPrice decimal.Decimal `db:"entryprice"`
	Quantity   int             `db:"quantity"`
	Active     bool            `db:"active"`
}
