package database

import (
	"context"
	"testing"

	"homeserv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceBooking(providerID int64, offset int) *models.ServiceBooking {
	return &models.ServiceBooking{
		CustomerID:    100,
		CustomerName:  "Carol",
		CustomerPhone: "+555",
		ProviderID:    providerID,
		Date:          day(offset),
		Address:       "12 Main St",
		Status:        models.StatusRequest,
	}
}

func TestCreateServiceBooking(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	booking := newServiceBooking(provider.ID, 0)
	require.NoError(t, db.CreateServiceBooking(ctx, booking))
	assert.NotZero(t, booking.ID)
	assert.Equal(t, int64(1), booking.Version)

	got, err := db.GetServiceBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.CustomerName)
	assert.Equal(t, day(0), got.Date)
	assert.False(t, got.Paid)

	// The date is now held in the provider's calendar.
	held, err := db.IsDateUnavailable(ctx, provider.ID, day(0))
	require.NoError(t, err)
	assert.True(t, held)
}

func TestServiceBookingSlotConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	first := newServiceBooking(provider.ID, 1)
	require.NoError(t, db.CreateServiceBooking(ctx, first))

	second := newServiceBooking(provider.ID, 1)
	err := db.CreateServiceBooking(ctx, second)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.BookingID)
	assert.Equal(t, models.StatusRequest, conflict.Status)
	assert.Equal(t, day(1), conflict.StartDate)
	assert.Equal(t, day(2), conflict.EndDate)

	// A different provider takes the same date freely.
	other := seedProvider(t, db)
	third := newServiceBooking(other.ID, 1)
	assert.NoError(t, db.CreateServiceBooking(ctx, third))
}

func TestServiceBookingManualBlockWins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	_, err := db.AddUnavailableDate(ctx, provider.ID, day(2))
	require.NoError(t, err)

	booking := newServiceBooking(provider.ID, 2)
	assert.ErrorIs(t, db.CreateServiceBooking(ctx, booking), ErrDateUnavailable)
}

func TestServiceBookingReleaseAndRebook(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	first := newServiceBooking(provider.ID, 3)
	require.NoError(t, db.CreateServiceBooking(ctx, first))

	// Rejection frees the slot: index excludes terminal statuses, and the
	// held date is released.
	require.NoError(t, db.UpdateServiceBookingStatusWithVersion(ctx, first.ID, 1, models.StatusRejected))
	require.NoError(t, db.ReleaseBookedDate(ctx, provider.ID, day(3)))

	second := newServiceBooking(provider.ID, 3)
	assert.NoError(t, db.CreateServiceBooking(ctx, second))
}

func TestServiceBookingVersionedUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	booking := newServiceBooking(provider.ID, 4)
	require.NoError(t, db.CreateServiceBooking(ctx, booking))

	require.NoError(t, db.UpdateServiceBookingStatusWithVersion(ctx, booking.ID, 1, models.StatusConfirmed))

	// Stale version loses.
	err := db.UpdateServiceBookingStatusWithVersion(ctx, booking.ID, 1, models.StatusProcessing)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	got, err := db.GetServiceBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestMarkServiceBookingPaid(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	booking := newServiceBooking(provider.ID, 5)
	require.NoError(t, db.CreateServiceBooking(ctx, booking))

	require.NoError(t, db.MarkServiceBookingPaid(ctx, booking.ID))

	got, err := db.GetServiceBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.True(t, got.ShowCustomerPhone)
	assert.Equal(t, models.StatusRequest, got.Status)

	assert.ErrorIs(t, db.MarkServiceBookingPaid(ctx, 9999), ErrNotFound)
}

func TestDeleteServiceBooking(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	booking := newServiceBooking(provider.ID, 6)
	require.NoError(t, db.CreateServiceBooking(ctx, booking))
	require.NoError(t, db.DeleteServiceBooking(ctx, booking.ID))

	_, err := db.GetServiceBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteServiceBooking(ctx, booking.ID), ErrNotFound)
}

func TestServiceBookingLists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)

	// Insert out of calendar order.
	later := newServiceBooking(provider.ID, 9)
	require.NoError(t, db.CreateServiceBooking(ctx, later))
	earlier := newServiceBooking(provider.ID, 7)
	require.NoError(t, db.CreateServiceBooking(ctx, earlier))

	byProvider, err := db.GetProviderServiceBookings(ctx, provider.ID)
	require.NoError(t, err)
	require.Len(t, byProvider, 2)
	assert.Equal(t, earlier.ID, byProvider[0].ID)

	byCustomer, err := db.GetCustomerServiceBookings(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	all, err := db.GetAllServiceBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
