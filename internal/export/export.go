package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"homeserv/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Source is the slice of persistence the exporter reads.
type Source interface {
	GetRentalBookingsInPeriod(ctx context.Context, start, end time.Time) ([]*models.RentalBooking, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
}

// Exporter renders rental booking reports as xlsx workbooks.
type Exporter struct {
	source Source
	path   string
	logger *zerolog.Logger
}

func NewExporter(source Source, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{source: source, path: path, logger: logger}
}

const sheetName = "Rental bookings"

var columns = []string{"ID", "Property", "Check-in", "Check-out", "Nights", "Total", "Status", "Payment", "Renter", "Created"}

// WriteRentalReport streams an xlsx report of bookings whose period
// intersects [start, end) to w.
func (e *Exporter) WriteRentalReport(ctx context.Context, w io.Writer, start, end time.Time) error {
	f, err := e.buildRentalReport(ctx, start, end)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// SaveRentalReport writes the report into the configured exports directory
// and returns the file path.
func (e *Exporter) SaveRentalReport(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := e.buildRentalReport(ctx, start, end)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("rentals_%s_to_%s.xlsx",
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("rental report created")
	return filePath, nil
}

func (e *Exporter) buildRentalReport(ctx context.Context, start, end time.Time) (*excelize.File, error) {
	bookings, err := e.source.GetRentalBookingsInPeriod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format(models.DateLayout), end.Format(models.DateLayout)))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, col)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	propertyNames := make(map[int64]string)
	for rowIdx, b := range bookings {
		name, ok := propertyNames[b.PropertyID]
		if !ok {
			name = fmt.Sprintf("#%d", b.PropertyID)
			if p, err := e.source.GetProperty(ctx, b.PropertyID); err == nil {
				name = p.Title
			}
			propertyNames[b.PropertyID] = name
		}

		row := rowIdx + 3
		values := []any{
			b.ID,
			name,
			b.StartDate.Format(models.DateLayout),
			b.EndDate.Format(models.DateLayout),
			b.TotalDays,
			b.TotalPrice,
			b.Status,
			b.PaymentStatus,
			b.FullName,
			b.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "J", 18)

	lastCol, _ := excelize.CoordinatesToCellName(len(columns), 1)
	_ = f.MergeCell(sheetName, "A1", lastCol)
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}
