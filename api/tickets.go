package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orenshv/flightsdb/internal/service/booking"
)

type TicketHandler struct {
	service booking.BookingUseCase
}

func NewTicketHandler(service booking.BookingUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.book)
	router.DELETE("/:id", h.cancel)
	router.GET("/bookable", h.bookable)
	router.GET("/customer/:id", h.byCustomer)
}

func (h *TicketHandler) book(c *gin.Context) {
	var input booking.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, ferrs, err := h.service.Book(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if ferrs != nil {
		fieldErrorsResponse(c, ferrs)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ticket, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) bookable(c *gin.Context) {
	flightID := queryInt(c, "flight_id")
	seats, err := strconv.Atoi(c.DefaultQuery("seat_count", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seat_count must be an integer"})
		return
	}
	ok, reason, err := h.service.IsBookable(c.Request.Context(), flightID, seats)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookable": ok, "reason": reason})
}

func (h *TicketHandler) byCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	pg := paginatorFromQuery(c)
	records, err := h.service.TicketsByCustomer(c.Request.Context(), id, pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}
