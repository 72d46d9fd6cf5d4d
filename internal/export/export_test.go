package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"homeserv/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubSource struct {
	bookings   []*models.RentalBooking
	properties map[int64]*models.Property
}

func (s *stubSource) GetRentalBookingsInPeriod(ctx context.Context, start, end time.Time) ([]*models.RentalBooking, error) {
	return s.bookings, nil
}

func (s *stubSource) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	if p, ok := s.properties[id]; ok {
		return p, nil
	}
	return nil, assert.AnError
}

func TestWriteRentalReport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	source := &stubSource{
		bookings: []*models.RentalBooking{
			{
				ID: 1, PropertyID: 10, FullName: "Bob",
				StartDate: start.AddDate(0, 0, 3), EndDate: start.AddDate(0, 0, 6),
				TotalDays: 3, TotalPrice: 300,
				Status: models.RentalProcessing, PaymentStatus: models.PaymentPaid,
				CreatedAt: start,
			},
		},
		properties: map[int64]*models.Property{
			10: {ID: 10, Title: "Sea View Flat"},
		},
	}

	exp := NewExporter(source, t.TempDir(), &logger)

	var buf bytes.Buffer
	require.NoError(t, exp.WriteRentalReport(context.Background(), &buf, start, end))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, "ID", rows[1][0])
	assert.Equal(t, "1", rows[2][0])
	assert.Equal(t, "Sea View Flat", rows[2][1])
	assert.Equal(t, "2026-09-04", rows[2][2])
	assert.Equal(t, "paid", rows[2][7])
}

func TestSaveRentalReport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	source := &stubSource{}
	exp := NewExporter(source, t.TempDir(), &logger)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	path, err := exp.SaveRentalReport(context.Background(), start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Contains(t, path, "rentals_2026-09-01_to_2026-09-08.xlsx")
}
