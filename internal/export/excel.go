// Package export writes the booking ledger to Excel workbooks.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"studiobook/internal/domain"
	"studiobook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// headers labels the price column with the studio currency when one is set.
func headers(currency string) []string {
	price := "Price"
	if currency != "" {
		price = fmt.Sprintf("Price (%s)", currency)
	}
	return []string{
		"ID", "Created", "Status", "Service", price, "Duration",
		"Date", "Time", "Name", "Email", "Phone", "Message",
	}
}

// BookingLister is the read side of the ledger.
type BookingLister interface {
	ListByRecency(ctx context.Context) ([]models.BookingRequest, error)
}

type LedgerExporter struct {
	ledger   BookingLister
	dir      string
	currency string
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewLedgerExporter(ledger BookingLister, dir, currency string, clock domain.Clock, logger *zerolog.Logger) *LedgerExporter {
	return &LedgerExporter{
		ledger:   ledger,
		dir:      dir,
		currency: currency,
		clock:    clock,
		logger:   logger,
	}
}

// Export writes a workbook into the export directory and returns its path.
func (e *LedgerExporter) Export(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, count, err := e.build(ctx)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_%s.xlsx", e.clock.Now().Format("2006-01-02_150405"))
	path := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("path", path).Int("bookings", count).Msg("ledger exported")
	return path, nil
}

// WriteTo streams a workbook to w.
func (e *LedgerExporter) WriteTo(ctx context.Context, w io.Writer) error {
	f, _, err := e.build(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func (e *LedgerExporter) build(ctx context.Context) (*excelize.File, int, error) {
	bookings, err := e.ledger.ListByRecency(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	header := headers(e.currency)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID.String(),
			b.CreatedAt.Format("2006-01-02 15:04"),
			string(b.Status),
			b.Service.Name,
			b.Service.Price.InexactFloat64(),
			b.Service.Duration,
			b.Date,
			b.Time,
			b.Customer.Name,
			b.Customer.Email,
			b.Customer.Phone,
			b.Customer.Message,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("error writing row %d: %w", row, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", lastCol, 18)
	_ = f.SetColWidth(sheetName, "L", "L", 40)
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return f, len(bookings), nil
}
