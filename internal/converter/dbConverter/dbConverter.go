package dbConverter

import (
	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/internal/model/dbModel"
)

func ConvertPosition(dbPosition dbModel.Position) model.Position {
	return model.Position{
		ID:         dbPosition.ID,
		Ticket:     dbPosition.Ticket,
		EntryPrice: dbPosition.EntryPrice,
		Quantity:   dbPosition.Quantity,
		Active:     dbPosition.Active,
	}
}
