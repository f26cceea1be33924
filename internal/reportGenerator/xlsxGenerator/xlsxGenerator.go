package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelasco/portfolio-dashboard/internal/model"
	"github.com/avelasco/portfolio-dashboard/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Portfolio"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, snapshot model.PortfolioSnapshot) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSheet(f, snapshot); err != nil {
		slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, snapshot model.PortfolioSnapshot) error {
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}

	headers := []string{"ticket", "quantity", "entry price", "current price", "day change", "day change %", "pnl %"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(sheetName, cell, header)
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("apply header style: %w", err)
		}
	}

	row := 2
	for _, line := range snapshot.Lines {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), line.Ticket)
		_ = f.SetCellInt(sheetName, fmt.Sprintf("B%d", row), int(line.Quantity))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), line.EntryPrice.String())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", row), line.CurrentPrice.String())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", row), line.DayChange.String())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", row), line.PercentChangeDay.StringFixed(2))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", row), line.UnrealizedPnlPercent.StringFixed(2))
		row++
	}

	row++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "total cost")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), snapshot.Summary.TotalCost.StringFixed(2))
	row++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "total value")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), snapshot.Summary.TotalValue.StringFixed(2))
	row++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "unrealized pnl")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), snapshot.Summary.UnrealizedPnl.StringFixed(2))
	row++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "return %")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), snapshot.Summary.ReturnPercent.StringFixed(2))

	return nil
}
