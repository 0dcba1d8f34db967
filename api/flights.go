package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/search", h.search)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.DELETE("/:id", h.cancel)
	router.GET("/boards/arrivals", h.arrivals)
	router.GET("/boards/departures", h.departures)
}

func (h *FlightHandler) list(c *gin.Context) {
	pg := paginatorFromQuery(c)
	records, err := h.service.List(c.Request.Context(), pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if len(flight) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) search(c *gin.Context) {
	query := repository.FlightQuery{
		OriginCountryID:      queryInt(c, "origin_country_id"),
		DestinationCountryID: queryInt(c, "destination_country_id"),
		AirlineID:            queryInt(c, "airline_id"),
		AllowCancelled:       c.Query("allow_cancelled") == "true",
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		query.Date = date
	}

	pg := paginatorFromQuery(c)
	records, err := h.service.Search(c.Request.Context(), query, pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input flights.CreateFlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, ferrs, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if ferrs != nil {
		fieldErrorsResponse(c, ferrs)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	flight, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) arrivals(c *gin.Context) {
	h.board(c, h.service.ArrivalsBoard)
}

func (h *FlightHandler) departures(c *gin.Context) {
	h.board(c, h.service.DeparturesBoard)
}

func (h *FlightHandler) board(c *gin.Context, fetch func(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)) {
	countryID := queryInt(c, "country_id")
	if countryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country_id is required"})
		return
	}
	pg := paginatorFromQuery(c)
	records, err := fetch(c.Request.Context(), countryID, pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}

func queryInt(c *gin.Context, name string) int64 {
	n, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return n
}
