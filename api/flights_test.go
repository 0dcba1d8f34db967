package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/service/flights"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, pg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, query repository.FlightQuery, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, query, pg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (domain.Record, domain.FieldErrors, error) {
	args := m.Called(ctx, input)
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

func (m *MockFlightUseCase) Cancel(ctx context.Context, id int64) (domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *MockFlightUseCase) ArrivalsBoard(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, countryID, pg)
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockFlightUseCase) DeparturesBoard(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error) {
	args := m.Called(ctx, countryID, pg)
	return args.Get(0).([]domain.Record), args.Error(1)
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights?limit=10&page=2", nil)

	flightRecords := []domain.Record{{"id": float64(1)}, {"id": float64(2)}}
	mockService.On("List", c.Request.Context(), mock.AnythingOfType("*repository.Paginator")).
		Run(func(args mock.Arguments) {
			pg := args.Get(1).(*repository.Paginator)
			assert.Equal(t, 10, pg.PageSize)
			assert.Equal(t, 2, pg.Page)
		}).
		Return(flightRecords, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data"`)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_ParsesQuery(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/search?origin_country_id=1&destination_country_id=2&date=2026-09-01", nil)

	expected := repository.FlightQuery{
		OriginCountryID:      1,
		DestinationCountryID: 2,
		Date:                 time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	mockService.On("Search", c.Request.Context(), expected, mock.AnythingOfType("*repository.Paginator")).
		Return([]domain.Record{}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_BadDate(t *testing.T) {
	handler := NewFlightHandler(&MockFlightUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/search?date=September", nil)

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_create(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	input := flights.CreateFlightInput{
		AirlineID:            1,
		OriginCountryID:      2,
		DestinationCountryID: 3,
		DepartureAt:          departure,
		ArrivalAt:            departure.Add(4 * time.Hour),
		TotalSeats:           200,
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := domain.Record{"id": float64(5)}
	mockService.On("Create", c.Request.Context(), input).Return(created, nil, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_NotFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "404"}}
	c.Request = httptest.NewRequest("GET", "/flights/404", nil)

	mockService.On("GetByID", c.Request.Context(), int64(404)).Return(domain.Record{}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_boards_RequireCountry(t *testing.T) {
	handler := NewFlightHandler(&MockFlightUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/boards/arrivals", nil)

	handler.arrivals(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_arrivals(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/flights/boards/arrivals?country_id=3", nil)

	board := []domain.Record{{"id": float64(9)}}
	mockService.On("ArrivalsBoard", c.Request.Context(), int64(3), mock.AnythingOfType("*repository.Paginator")).
		Return(board, nil)

	handler.arrivals(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
