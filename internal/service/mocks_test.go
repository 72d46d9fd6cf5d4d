package service

import (
	"context"
	"io"
	"time"

	"homeserv/internal/database"
	"homeserv/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateServiceBooking(ctx context.Context, b *models.ServiceBooking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) GetServiceBooking(ctx context.Context, id int64) (*models.ServiceBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceBooking), args.Error(1)
}
func (m *mockRepo) UpdateServiceBookingStatusWithVersion(ctx context.Context, id, v int64, s string) error {
	return m.Called(ctx, id, v, s).Error(0)
}
func (m *mockRepo) MarkServiceBookingPaid(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) DeleteServiceBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) GetProviderServiceBookings(ctx context.Context, id int64) ([]*models.ServiceBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ServiceBooking), args.Error(1)
}
func (m *mockRepo) GetCustomerServiceBookings(ctx context.Context, id int64) ([]*models.ServiceBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ServiceBooking), args.Error(1)
}
func (m *mockRepo) GetAllServiceBookings(ctx context.Context) ([]*models.ServiceBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ServiceBooking), args.Error(1)
}
func (m *mockRepo) AddUnavailableDate(ctx context.Context, id int64, d time.Time) (*models.UnavailableDate, error) {
	args := m.Called(ctx, id, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UnavailableDate), args.Error(1)
}
func (m *mockRepo) GetUnavailableDates(ctx context.Context, id int64) ([]*models.UnavailableDate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UnavailableDate), args.Error(1)
}
func (m *mockRepo) DeleteUnavailableDate(ctx context.Context, id, pid int64) error {
	return m.Called(ctx, id, pid).Error(0)
}
func (m *mockRepo) ReleaseBookedDate(ctx context.Context, id int64, d time.Time) error {
	return m.Called(ctx, id, d).Error(0)
}
func (m *mockRepo) IsDateUnavailable(ctx context.Context, id int64, d time.Time) (bool, error) {
	args := m.Called(ctx, id, d)
	return args.Bool(0), args.Error(1)
}
func (m *mockRepo) CreateRentalBookingWithLock(ctx context.Context, b *models.RentalBooking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) FindOverlappingRentalBooking(ctx context.Context, pid int64, s, e time.Time) (*database.ConflictError, error) {
	args := m.Called(ctx, pid, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.ConflictError), args.Error(1)
}
func (m *mockRepo) GetRentalBooking(ctx context.Context, id int64) (*models.RentalBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalBooking), args.Error(1)
}
func (m *mockRepo) UpdateRentalBookingStatusWithVersion(ctx context.Context, id, v int64, s, by, n string) error {
	return m.Called(ctx, id, v, s, by, n).Error(0)
}
func (m *mockRepo) MarkRentalBookingPaid(ctx context.Context, id, v int64, s, by, n string) error {
	return m.Called(ctx, id, v, s, by, n).Error(0)
}
func (m *mockRepo) DeleteRentalBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) GetRenterRentalBookings(ctx context.Context, id int64) ([]*models.RentalBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalBooking), args.Error(1)
}
func (m *mockRepo) GetOwnerRentalBookings(ctx context.Context, id int64) ([]*models.RentalBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalBooking), args.Error(1)
}
func (m *mockRepo) GetAllRentalBookings(ctx context.Context) ([]*models.RentalBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalBooking), args.Error(1)
}
func (m *mockRepo) GetStaleUnpaidRentalBookings(ctx context.Context, c time.Time) ([]*models.RentalBooking, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalBooking), args.Error(1)
}
func (m *mockRepo) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}
func (m *mockRepo) GetOwner(ctx context.Context, id int64) (*models.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}
func (m *mockRepo) GetProvider(ctx context.Context, id int64) (*models.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Provider), args.Error(1)
}
func (m *mockRepo) EnqueueCleanupTask(ctx context.Context, t *models.CleanupTask) error {
	return m.Called(ctx, t).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

type mockDocStore struct {
	mock.Mock
}

func (m *mockDocStore) Upload(ctx context.Context, r io.Reader, fn string) (models.Document, error) {
	args := m.Called(ctx, r, fn)
	return args.Get(0).(models.Document), args.Error(1)
}
func (m *mockDocStore) Delete(ctx context.Context, pid string) error {
	return m.Called(ctx, pid).Error(0)
}
