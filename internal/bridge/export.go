package bridge

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/xuri/excelize/v2"

	"shotsort/internal/services"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ExportExpenses writes an XLSX workbook of one month's currency-marked
// records and returns it as bytes. yearMonth must be "YYYY-MM".
func (b *Bridge) ExportExpenses(ctx context.Context, yearMonth string) ([]byte, error) {
	if !yearMonthPattern.MatchString(yearMonth) {
		return nil, services.Wrap(services.ErrValidation, services.StagePersistence, "export expenses", fmt.Sprintf("invalid month %q, want YYYY-MM", yearMonth), nil)
	}
	items, err := b.store.ExpensesForMonth(ctx, yearMonth)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("export expenses: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export expenses: drop default sheet: %w", err)
	}

	headers := []string{"Date", "Filename", "Category", "Amount", "Text Preview"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	var total float64
	for _, item := range items {
		if !item.HasAmount() {
			continue
		}
		write(1, row, time.UnixMilli(item.CreatedAt).Format("2006-01-02"))
		write(2, row, item.Filename)
		write(3, row, string(item.Category))
		write(4, row, *item.Amount)
		write(5, row, preview(item.ExtractedText, previewLength))
		total += *item.Amount
		row++
	}

	write(3, row+1, "Total")
	write(4, row+1, total)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export expenses: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
