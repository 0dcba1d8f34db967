package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
)

// CountryStore covers the country and airline lookups behind the public
// reference endpoints.
type CountryStore interface {
	GetByID(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error)
	ListAll(ctx context.Context, kind domain.Kind, pg *repository.Paginator) ([]domain.Record, error)
	GetAirlinesByCountry(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
	GetAirlinesByName(ctx context.Context, name string, allowDeactivated bool, pg *repository.Paginator) ([]domain.Record, error)
	GetFlightsByOrigin(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
	GetFlightsByDestination(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
}

type CountryHandler struct {
	store CountryStore
}

func NewCountryHandler(store CountryStore) *CountryHandler {
	return &CountryHandler{store: store}
}

func (h *CountryHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/airlines", h.airlines)
	router.GET("/:id/flights/departing", h.departing)
	router.GET("/:id/flights/arriving", h.arriving)
	router.GET("/airlines/search", h.searchAirlines)
}

func (h *CountryHandler) list(c *gin.Context) {
	pg := paginatorFromQuery(c)
	records, err := h.store.ListAll(c.Request.Context(), domain.KindCountry, pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}

func (h *CountryHandler) get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	country, err := h.store.GetByID(c.Request.Context(), domain.KindCountry, id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if len(country) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "country not found"})
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *CountryHandler) airlines(c *gin.Context) {
	h.byCountry(c, h.store.GetAirlinesByCountry)
}

func (h *CountryHandler) departing(c *gin.Context) {
	h.byCountry(c, h.store.GetFlightsByOrigin)
}

func (h *CountryHandler) arriving(c *gin.Context) {
	h.byCountry(c, h.store.GetFlightsByDestination)
}

func (h *CountryHandler) byCountry(c *gin.Context, fetch func(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	pg := paginatorFromQuery(c)
	records, err := fetch(c.Request.Context(), id, pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}

func (h *CountryHandler) searchAirlines(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	pg := paginatorFromQuery(c)
	records, err := h.store.GetAirlinesByName(c.Request.Context(), name,
		c.Query("allow_deactivated") == "true", pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}
