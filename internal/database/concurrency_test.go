package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"homeserv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentServiceBookingsOneWinner(t *testing.T) {
	db := newTestDB(t)
	// One connection keeps losers on the unique index instead of a driver
	// busy error.
	db.SetMaxOpenConns(1)
	provider := seedProvider(t, db)

	const attempts = 10
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = db.CreateServiceBooking(context.Background(), newServiceBooking(provider.ID, 0))
		}(i)
	}
	wg.Wait()

	var won, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		default:
			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, conflicts)
}

func TestConcurrentRentalBookingsOneWinner(t *testing.T) {
	db := newTestDB(t)
	db.SetMaxOpenConns(1)
	property := seedProperty(t, db)

	const attempts = 10
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = db.CreateRentalBookingWithLock(context.Background(), newRentalBooking(property, 0, 5))
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range results {
		if err == nil {
			won++
			continue
		}
		var conflict *ConflictError
		assert.True(t, errors.As(err, &conflict))
	}
	assert.Equal(t, 1, won)

	all, err := db.GetAllRentalBookings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConcurrentVersionedUpdatesOneWinner(t *testing.T) {
	db := newTestDB(t)
	db.SetMaxOpenConns(1)
	property := seedProperty(t, db)
	booking := createRental(t, db, property, 0, 3)

	const attempts = 5
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = db.UpdateRentalBookingStatusWithVersion(
				context.Background(), booking.ID, 1, models.RentalOwnerConfirm, "owner:1", "")
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range results {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrConcurrentModification)
		}
	}
	assert.Equal(t, 1, won)

	got, err := db.GetRentalBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Len(t, got.History, 1)
}
