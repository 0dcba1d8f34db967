package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListAll(ctx context.Context, kind domain.Kind, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, kind, pg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, kind domain.Kind, fields domain.Record) (domain.Record, domain.FieldErrors, error) {
	args := m.Called(ctx, kind, fields)
	var rec domain.Record
	if args.Get(0) != nil {
		rec = args.Get(0).(domain.Record)
	}
	var ferrs domain.FieldErrors
	if args.Get(1) != nil {
		ferrs = args.Get(1).(domain.FieldErrors)
	}
	return rec, ferrs, args.Error(2)
}

func (m *MockStore) CancelFlight(ctx context.Context, flightID int64) (domain.Record, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *MockStore) GetFlightsByParameters(ctx context.Context, q repository.FlightQuery, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, q, pg)
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockStore) GetArrivalFlights(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, countryID, pg)
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockStore) GetDepartureFlights(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, countryID, pg)
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockStore) InstanceExists(ctx context.Context, kind domain.Kind, id int64) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Record) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestService_List_CacheHit(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	cached := []domain.Record{{"id": int64(1)}, {"id": int64(2)}}
	mockCache.On("GetFlights", ctx).Return(cached, nil).Once()

	pg := repository.NewPaginator(0, 0)
	flights, err := service.List(ctx, pg)

	assert.NoError(t, err)
	assert.Equal(t, cached, flights)
	assert.Equal(t, int64(2), pg.Total)

	mockStore.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_List_NilPaginator(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	cached := []domain.Record{{"id": int64(1)}}
	mockCache.On("GetFlights", ctx).Return(cached, nil).Once()

	flights, err := service.List(ctx, nil)

	assert.NoError(t, err)
	assert.Equal(t, cached, flights)
	mockStore.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_List_CacheMissFillsCache(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	stored := []domain.Record{{"id": int64(1)}}
	pg := repository.NewPaginator(0, 0)

	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockStore.On("ListAll", ctx, domain.KindFlight, pg).Return(stored, nil).Once()
	mockCache.On("SetFlights", ctx, stored).Return(nil).Once()

	flights, err := service.List(ctx, pg)

	assert.NoError(t, err)
	assert.Equal(t, stored, flights)
	mockCache.AssertExpectations(t)
}

func TestService_List_PaginatedBypassesCache(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	pg := repository.NewPaginator(10, 1)
	stored := []domain.Record{{"id": int64(1)}}

	mockStore.On("ListAll", ctx, domain.KindFlight, pg).Return(stored, nil).Once()

	flights, err := service.List(ctx, pg)

	assert.NoError(t, err)
	assert.Equal(t, stored, flights)
	mockCache.AssertNotCalled(t, "GetFlights", mock.Anything)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything)
}

func TestService_Create_Success(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	input := CreateFlightInput{
		AirlineID:            1,
		OriginCountryID:      2,
		DestinationCountryID: 3,
		DepartureAt:          departure,
		ArrivalAt:            departure.Add(4 * time.Hour),
		TotalSeats:           200,
	}
	created := domain.Record{"id": int64(5)}

	mockStore.On("InstanceExists", ctx, domain.KindAirline, int64(1)).Return(true, nil).Once()
	mockStore.On("InstanceExists", ctx, domain.KindCountry, int64(2)).Return(true, nil).Once()
	mockStore.On("InstanceExists", ctx, domain.KindCountry, int64(3)).Return(true, nil).Once()
	mockStore.On("Create", ctx, domain.KindFlight, mock.AnythingOfType("domain.Record")).Return(created, nil, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, ferrs, err := service.Create(ctx, input)

	assert.NoError(t, err)
	assert.Nil(t, ferrs)
	assert.Equal(t, created, flight)
	mockStore.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_Create_ArrivalBeforeDeparture(t *testing.T) {
	service := NewService(&MockStore{}, nil, zap.NewNop())

	ctx := context.Background()
	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	input := CreateFlightInput{
		AirlineID:            1,
		OriginCountryID:      2,
		DestinationCountryID: 3,
		DepartureAt:          departure,
		ArrivalAt:            departure.Add(-time.Hour),
		TotalSeats:           200,
	}

	flight, ferrs, err := service.Create(ctx, input)

	assert.NoError(t, err)
	assert.Nil(t, flight)
	assert.Contains(t, ferrs, "arrival_at")
}

func TestService_Create_MissingReferences(t *testing.T) {
	mockStore := &MockStore{}
	service := NewService(mockStore, nil, zap.NewNop())

	ctx := context.Background()
	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	input := CreateFlightInput{
		AirlineID:            1,
		OriginCountryID:      2,
		DestinationCountryID: 3,
		DepartureAt:          departure,
		ArrivalAt:            departure.Add(time.Hour),
		TotalSeats:           100,
	}

	mockStore.On("InstanceExists", ctx, domain.KindAirline, int64(1)).Return(false, nil).Once()
	mockStore.On("InstanceExists", ctx, domain.KindCountry, int64(2)).Return(true, nil).Once()
	mockStore.On("InstanceExists", ctx, domain.KindCountry, int64(3)).Return(true, nil).Once()

	flight, ferrs, err := service.Create(ctx, input)

	assert.NoError(t, err)
	assert.Nil(t, flight)
	assert.Equal(t, []string{"referenced instance does not exist"}, ferrs["airline_id"])
	mockStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_InvalidatesCache(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	cancelled := domain.Record{"id": int64(5), "is_cancelled": true}

	mockStore.On("CancelFlight", ctx, int64(5)).Return(cancelled, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.Cancel(ctx, 5)

	assert.NoError(t, err)
	assert.Equal(t, cancelled, flight)
	mockCache.AssertExpectations(t)
}

func TestService_Cancel_NotFound(t *testing.T) {
	mockStore := &MockStore{}
	mockCache := &MockCache{}
	service := NewService(mockStore, mockCache, zap.NewNop())

	ctx := context.Background()
	mockStore.On("CancelFlight", ctx, int64(99)).Return(nil, repository.ErrNotFound).Once()

	_, err := service.Cancel(ctx, 99)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	mockCache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestService_Search_PassesQuery(t *testing.T) {
	mockStore := &MockStore{}
	service := NewService(mockStore, nil, zap.NewNop())

	ctx := context.Background()
	query := repository.FlightQuery{OriginCountryID: 1, DestinationCountryID: 2}
	pg := repository.NewPaginator(10, 1)
	results := []domain.Record{{"id": int64(3)}}

	mockStore.On("GetFlightsByParameters", ctx, query, pg).Return(results, nil).Once()

	flights, err := service.Search(ctx, query, pg)
	assert.NoError(t, err)
	assert.Equal(t, results, flights)
}

func TestService_Search_StoreError(t *testing.T) {
	mockStore := &MockStore{}
	service := NewService(mockStore, nil, zap.NewNop())

	ctx := context.Background()
	storeErr := errors.New("connection refused")
	mockStore.On("GetFlightsByParameters", ctx, mock.Anything, mock.Anything).Return([]domain.Record{}, storeErr).Once()

	_, err := service.Search(ctx, repository.FlightQuery{}, nil)
	assert.ErrorIs(t, err, storeErr)
}

func TestService_Boards(t *testing.T) {
	mockStore := &MockStore{}
	service := NewService(mockStore, nil, zap.NewNop())

	ctx := context.Background()
	arrivals := []domain.Record{{"id": int64(1)}}
	departures := []domain.Record{{"id": int64(2)}}

	mockStore.On("GetArrivalFlights", ctx, int64(3), (*repository.Paginator)(nil)).Return(arrivals, nil).Once()
	mockStore.On("GetDepartureFlights", ctx, int64(3), (*repository.Paginator)(nil)).Return(departures, nil).Once()

	got, err := service.ArrivalsBoard(ctx, 3, nil)
	assert.NoError(t, err)
	assert.Equal(t, arrivals, got)

	got, err = service.DeparturesBoard(ctx, 3, nil)
	assert.NoError(t, err)
	assert.Equal(t, departures, got)
}
